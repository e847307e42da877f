package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"os/signal"
	"runtime/debug"
	"sort"
	"syscall"
	"time"

	"github.com/common-nighthawk/go-figure"
	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/rs/zerolog/log"

	"github.com/jrsteele09/go-credits-portal/internal/config"
	"github.com/jrsteele09/go-credits-portal/internal/logger"
	"github.com/jrsteele09/go-credits-portal/portal"
)

type commandFn func(cc *commandContext, args []string) error

type command struct {
	name        string
	usage       string
	description string
	run         commandFn
}

type commandContext struct {
	Ctx      context.Context
	Config   config.Config
	App      *portal.App
	Registry *prometheus.Registry
	Out      io.Writer
}

func main() {
	if len(os.Args) < 2 {
		printUsage(os.Stderr)
		os.Exit(2)
	}
	cmd, ok := commands()[os.Args[1]]
	if !ok {
		fmt.Fprintf(os.Stderr, "unknown command %q\n\n", os.Args[1])
		printUsage(os.Stderr)
		os.Exit(2)
	}
	if err := run(cmd, os.Args[2:]); err != nil {
		log.Error().Err(err).Str("command", cmd.name).Msg("Command failed")
		os.Exit(1)
	}
}

func run(cmd command, args []string) (returnError error) {
	defer func() {
		if r := recover(); r != nil {
			log.Error().Interface("panic", r).Bytes("stack", debug.Stack()).Msg("Recovered from panic")
			returnError = errors.New("panic recovered")
		}
	}()

	// A missing .env is normal outside development.
	_ = godotenv.Load()

	c, err := config.New()
	if err != nil {
		return err
	}
	logger.New(c.GetAppName(), c.GetLogLevel(), c.GetEnv())

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	stores, err := portal.OpenStores(ctx, c)
	if err != nil {
		return err
	}
	defer stores.Close()

	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))

	app, err := portal.New(c, portal.Deps{
		Ephemeral:  stores.Ephemeral,
		Durable:    stores.Durable,
		Registerer: reg,
	})
	if err != nil {
		return err
	}
	defer app.Close()

	cc := &commandContext{Ctx: ctx, Config: c, App: app, Registry: reg, Out: os.Stdout}
	if _, err := app.Restore(ctx); err != nil {
		log.Warn().Err(err).Msg("Restoring session")
	}

	returnError = cmd.run(cc, args)
	app.Close()
	printToasts(cc.Out, app)
	return returnError
}

func printUsage(w io.Writer) {
	fmt.Fprintln(w, "usage: portal <command> [arguments]")
	fmt.Fprintln(w)
	cmds := commands()
	names := make([]string, 0, len(cmds))
	for name := range cmds {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		fmt.Fprintf(w, "  %-40s %s\n", cmds[name].usage, cmds[name].description)
	}
}

func displayAppname(w io.Writer, appname string) {
	myFigure := figure.NewFigure(appname, "cybermedium", true)
	fmt.Fprint(w, myFigure.String())
	fmt.Fprintln(w)
}

func listenAndServe(server *http.Server) error {
	log.Info().Str("addr", server.Addr).Msg("Status server listening")
	if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return fmt.Errorf("server.ListenAndServe %w", err)
	}
	return nil
}

func shutdown(server *http.Server) error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := server.Shutdown(ctx); err != nil {
		return fmt.Errorf("server.Shutdown: %w", err)
	}
	return nil
}
