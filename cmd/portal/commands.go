package main

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"net/http"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/stripe/stripe-go/v83"

	"github.com/jrsteele09/go-credits-portal/api"
	"github.com/jrsteele09/go-credits-portal/internal/utils"
	"github.com/jrsteele09/go-credits-portal/portal"
	"github.com/jrsteele09/go-credits-portal/server"
	"github.com/jrsteele09/go-credits-portal/users"
)

func commands() map[string]command {
	return map[string]command{
		"login": {
			name:        "login",
			usage:       "login [-remember] <email> <password>",
			description: "Sign in; -remember keeps the session across runs",
			run:         runLogin,
		},
		"logout": {
			name:        "logout",
			usage:       "logout",
			description: "Sign out and forget the stored session",
			run:         runLogout,
		},
		"register": {
			name:        "register",
			usage:       "register [-first -last -company] <email> <password>",
			description: "Create an account",
			run:         runRegister,
		},
		"profile": {
			name:        "profile",
			usage:       "profile [-first -last -company]",
			description: "Show your profile, or update the given fields",
			run:         runProfile,
		},
		"open": {
			name:        "open",
			usage:       "open <url>",
			description: "Navigate to a page and print where you end up",
			run:         runOpen,
		},
		"credits": {
			name:        "credits",
			usage:       "credits",
			description: "Show balance, packages and recent invoices",
			run:         runCredits,
		},
		"buy": {
			name:        "buy",
			usage:       "buy <packageID>",
			description: "Start a checkout and print the payment link",
			run:         runBuy,
		},
		"billing": {
			name:        "billing",
			usage:       "billing",
			description: "List invoices",
			run:         runBilling,
		},
		"search": {
			name:        "search",
			usage:       "search <query>",
			description: "Search documents; no query prints your history",
			run:         runSearch,
		},
		"status": {
			name:        "status",
			usage:       "status",
			description: "Print the session and navigation state",
			run:         runStatus,
		},
		"serve": {
			name:        "serve",
			usage:       "serve",
			description: "Run the local status server until interrupted",
			run:         runServe,
		},
	}
}

var errUsage = errors.New("invalid arguments")

func runLogin(cc *commandContext, args []string) error {
	fs := flag.NewFlagSet("login", flag.ContinueOnError)
	remember := fs.Bool("remember", false, "keep the session after the process exits")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if fs.NArg() != 2 {
		return fmt.Errorf("%w: login [-remember] <email> <password>", errUsage)
	}
	location, err := cc.App.Login(cc.Ctx, fs.Arg(0), fs.Arg(1), *remember)
	if err != nil {
		return err
	}
	fmt.Fprintf(cc.Out, "Signed in, now at %s\n", location)
	return nil
}

func runLogout(cc *commandContext, _ []string) error {
	location, err := cc.App.Logout(cc.Ctx)
	if err != nil {
		return err
	}
	fmt.Fprintf(cc.Out, "Signed out, now at %s\n", location)
	return nil
}

func runRegister(cc *commandContext, args []string) error {
	fs := flag.NewFlagSet("register", flag.ContinueOnError)
	first := fs.String("first", "", "first name")
	last := fs.String("last", "", "last name")
	company := fs.String("company", "", "company name")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if fs.NArg() != 2 {
		return fmt.Errorf("%w: register <email> <password>", errUsage)
	}
	_, err := cc.App.Register(cc.Ctx, api.RegisterRequest{
		Email:     fs.Arg(0),
		Password:  fs.Arg(1),
		FirstName: *first,
		LastName:  *last,
		Company:   *company,
	})
	return err
}

func runProfile(cc *commandContext, args []string) error {
	fs := flag.NewFlagSet("profile", flag.ContinueOnError)
	first := fs.String("first", "", "first name")
	last := fs.String("last", "", "last name")
	company := fs.String("company", "", "company name")
	if err := fs.Parse(args); err != nil {
		return err
	}

	var update api.ProfileUpdate
	changed := false
	fs.Visit(func(f *flag.Flag) {
		changed = true
		switch f.Name {
		case "first":
			update.FirstName = utils.Ptr(*first)
		case "last":
			update.LastName = utils.Ptr(*last)
		case "company":
			update.Company = utils.Ptr(*company)
		}
	})

	var (
		u   *users.User
		err error
	)
	if changed {
		u, err = cc.App.API.UpdateProfile(cc.Ctx, update)
	} else {
		u, err = cc.App.API.Profile(cc.Ctx)
	}
	if err != nil {
		return err
	}
	if err := cc.App.Session.SetUser(cc.Ctx, u); err != nil {
		return err
	}
	printProfile(cc.Out, u)
	return nil
}

func runOpen(cc *commandContext, args []string) error {
	if len(args) != 1 {
		return fmt.Errorf("%w: open <url>", errUsage)
	}
	location, err := cc.App.Open(cc.Ctx, args[0])
	if err != nil {
		return err
	}
	fmt.Fprintln(cc.Out, location)
	return nil
}

func runCredits(cc *commandContext, _ []string) error {
	d, err := cc.App.LoadDashboard(cc.Ctx)
	if err != nil {
		return err
	}
	printDashboard(cc.Out, d)
	return nil
}

func runBuy(cc *commandContext, args []string) error {
	if len(args) != 1 {
		return fmt.Errorf("%w: buy <packageID>", errUsage)
	}
	link, err := cc.App.BuyCredits(cc.Ctx, args[0])
	if err != nil {
		return err
	}
	fmt.Fprintf(cc.Out, "Complete your payment at:\n  %s\n", link)
	return nil
}

func runBilling(cc *commandContext, _ []string) error {
	invoices, err := cc.App.API.BillingHistory(cc.Ctx)
	if err != nil {
		return err
	}
	if u := cc.App.Session.User(cc.Ctx); u != nil {
		if err := cc.App.Session.SetBillingHistory(cc.Ctx, u.Email, invoices); err != nil {
			return err
		}
	}
	printInvoices(cc.Out, invoices)
	return nil
}

func runSearch(cc *commandContext, args []string) error {
	query := strings.Join(args, " ")
	if strings.TrimSpace(query) == "" {
		for i, q := range cc.App.SearchHistory(cc.Ctx) {
			fmt.Fprintf(cc.Out, "%2d. %s\n", i+1, q)
		}
		return nil
	}
	docs, err := cc.App.Search(cc.Ctx, query)
	if err != nil {
		return err
	}
	printDocuments(cc.Out, docs)
	return nil
}

func runStatus(cc *commandContext, _ []string) error {
	printStatus(cc.Out, cc.App.Status(cc.Ctx))
	return nil
}

func runServe(cc *commandContext, _ []string) error {
	displayAppname(cc.Out, cc.Config.GetAppName())
	srv := &http.Server{
		Addr:              cc.Config.GetStatusAddr(),
		Handler:           server.New(cc.Config, cc.App, cc.Registry),
		ReadHeaderTimeout: 5 * time.Second,
	}
	errCh := make(chan error, 1)
	go func() { errCh <- listenAndServe(srv) }()

	select {
	case err := <-errCh:
		return err
	case <-cc.Ctx.Done():
	}
	return shutdown(srv)
}

func printDashboard(w io.Writer, d *portal.Dashboard) {
	fmt.Fprintf(w, "Credits: %d\n\n", d.Credits)

	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "PACKAGE\tNAME\tCREDITS\tPRICE")
	for _, p := range d.Packages {
		if !p.Active {
			continue
		}
		fmt.Fprintf(tw, "%s\t%s\t%d\t%s\n", p.ID, p.Name, p.Credits, formatAmount(p.Price, p.Currency))
	}
	tw.Flush()

	if len(d.Invoices) > 0 {
		fmt.Fprintln(w)
		printInvoices(w, d.Invoices)
	}
}

func printInvoices(w io.Writer, invoices []*stripe.Invoice) {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "INVOICE\tDATE\tAMOUNT\tSTATUS")
	for _, inv := range invoices {
		if inv == nil {
			continue
		}
		date := "-"
		if inv.Created > 0 {
			date = time.Unix(inv.Created, 0).UTC().Format("2006-01-02")
		}
		number := inv.Number
		if number == "" {
			number = inv.ID
		}
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\n", number, date, formatAmount(inv.AmountPaid, string(inv.Currency)), inv.Status)
	}
	tw.Flush()
}

func printProfile(w io.Writer, u *users.User) {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintf(tw, "Name:\t%s\n", u.DisplayName())
	fmt.Fprintf(tw, "Email:\t%s\n", u.Email)
	if u.Company != "" {
		fmt.Fprintf(tw, "Company:\t%s\n", u.Company)
	}
	fmt.Fprintf(tw, "Role:\t%s\n", u.CanonicalRole())
	fmt.Fprintf(tw, "Credits:\t%d\n", u.Credits)
	tw.Flush()
}

func printDocuments(w io.Writer, docs []api.Document) {
	if len(docs) == 0 {
		fmt.Fprintln(w, "No results.")
		return
	}
	for _, d := range docs {
		fmt.Fprintf(w, "%s  %s\n", d.ID, d.Title)
		if d.Snippet != "" {
			fmt.Fprintf(w, "    %s\n", d.Snippet)
		}
	}
}

func printStatus(w io.Writer, st portal.Status) {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	signedIn := "no"
	if st.Authenticated {
		signedIn = "yes (" + string(st.Scope) + ")"
	}
	fmt.Fprintf(tw, "Signed in:\t%s\n", signedIn)
	if st.Email != "" {
		fmt.Fprintf(tw, "User:\t%s (%s)\n", st.Email, st.Role)
	}
	if st.Credits != nil {
		fmt.Fprintf(tw, "Credits:\t%d\n", utils.Value(st.Credits))
	}
	fmt.Fprintf(tw, "Page:\t%s\n", st.Route)
	fmt.Fprintf(tw, "Language:\t%s\n", st.Language)
	tw.Flush()
}

func printToasts(w io.Writer, app *portal.App) {
	for _, m := range app.Toasts.Active() {
		fmt.Fprintf(w, "[%s] %s\n", strings.ToUpper(string(m.Variant)), m.Text)
	}
}

// formatAmount renders minor units as a decimal amount.
func formatAmount(minor int64, currency string) string {
	sign := ""
	if minor < 0 {
		sign, minor = "-", -minor
	}
	return fmt.Sprintf("%s%d.%02d %s", sign, minor/100, minor%100, strings.ToUpper(currency))
}
