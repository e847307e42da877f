package sessions

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
	"sync"

	perrors "github.com/jrsteele09/go-credits-portal/internal/errors"
	"github.com/jrsteele09/go-credits-portal/storage"
	"github.com/jrsteele09/go-credits-portal/users"
	"github.com/rs/zerolog/log"
	"github.com/stripe/stripe-go/v83"
	"golang.org/x/text/language"
)

// Store owns the two storage scopes and is the only writer of the auth token.
// Construct one per application and inject it into guards and interceptors.
type Store struct {
	mu              sync.RWMutex
	ephemeral       storage.Store
	durable         storage.Store
	defaultLanguage language.Tag
}

func NewStore(ephemeral, durable storage.Store, defaultLanguage string) *Store {
	tag, err := language.Parse(defaultLanguage)
	if err != nil {
		tag = language.English
	}
	return &Store{
		ephemeral:       ephemeral,
		durable:         durable,
		defaultLanguage: tag,
	}
}

func (s *Store) scope(sc storage.Scope) storage.Store {
	if sc == storage.ScopeDurable {
		return s.durable
	}
	return s.ephemeral
}

func other(sc storage.Scope) storage.Scope {
	if sc == storage.ScopeDurable {
		return storage.ScopeEphemeral
	}
	return storage.ScopeDurable
}

// Login stores the token and user in the scope chosen by remember and removes
// any copy from the other scope, so exactly one scope is authoritative.
func (s *Store) Login(ctx context.Context, token string, user *users.User, remember bool) error {
	if strings.TrimSpace(token) == "" {
		return perrors.ErrNoToken
	}
	target := storage.ScopeEphemeral
	if remember {
		target = storage.ScopeDurable
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	stale := s.scope(other(target))
	if err := stale.Delete(ctx, KeyAuthToken); err != nil {
		return perrors.Wrapf(err, "[Login] clear %s token", other(target))
	}
	if err := stale.Delete(ctx, KeyLoggedInUser); err != nil {
		return perrors.Wrapf(err, "[Login] clear %s user", other(target))
	}

	dst := s.scope(target)
	if user != nil {
		if err := putJSON(ctx, dst, KeyLoggedInUser, user); err != nil {
			return perrors.Wrapf(err, "[Login] store user")
		}
	} else if err := dst.Delete(ctx, KeyLoggedInUser); err != nil {
		return perrors.Wrapf(err, "[Login] clear user")
	}
	if err := dst.Set(ctx, KeyAuthToken, token); err != nil {
		return perrors.Wrapf(err, "[Login] store token")
	}
	return nil
}

// Current returns the session snapshot. Storage read failures are logged and
// treated as an absent session.
func (s *Store) Current(ctx context.Context) Session {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.current(ctx)
}

func (s *Store) current(ctx context.Context) Session {
	token, sc := s.tokenLocked(ctx)
	if token == "" {
		return Session{Scope: storage.ScopeNone}
	}
	return Session{
		Token: token,
		User:  s.userLocked(ctx, sc),
		Scope: sc,
	}
}

// Token returns the bearer token or "" when logged out.
func (s *Store) Token(ctx context.Context) string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	token, _ := s.tokenLocked(ctx)
	return token
}

func (s *Store) HasToken(ctx context.Context) bool {
	return s.Token(ctx) != ""
}

// User returns the cached user, or nil when there is no token.
func (s *Store) User(ctx context.Context) *users.User {
	return s.Current(ctx).User
}

func (s *Store) Scope(ctx context.Context) storage.Scope {
	return s.Current(ctx).Scope
}

func (s *Store) tokenLocked(ctx context.Context) (string, storage.Scope) {
	for _, sc := range []storage.Scope{storage.ScopeEphemeral, storage.ScopeDurable} {
		v, err := s.scope(sc).Get(ctx, KeyAuthToken)
		if err == nil && v != "" {
			return v, sc
		}
		if err != nil && !perrors.Is(err, perrors.ErrNotFound) {
			log.Warn().Err(err).Str("scope", string(sc)).Msg("Session: failed to read token")
		}
	}
	return "", storage.ScopeNone
}

func (s *Store) userLocked(ctx context.Context, sc storage.Scope) *users.User {
	for _, candidate := range []storage.Scope{sc, other(sc)} {
		var u users.User
		err := getJSON(ctx, s.scope(candidate), KeyLoggedInUser, &u)
		if err == nil {
			return &u
		}
		if !perrors.Is(err, perrors.ErrNotFound) {
			log.Warn().Err(err).Str("scope", string(candidate)).Msg("Session: failed to read cached user")
		}
	}
	return nil
}

// SetUser replaces the cached user in the authoritative scope.
func (s *Store) SetUser(ctx context.Context, user *users.User) error {
	if user == nil {
		return perrors.ErrNoUser
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	_, sc := s.tokenLocked(ctx)
	if sc == storage.ScopeNone {
		return perrors.ErrNoToken
	}
	return putJSON(ctx, s.scope(sc), KeyLoggedInUser, user)
}

// ClearTokens removes the token from both scopes. The cached user becomes
// unreachable because User is only returned alongside a token.
func (s *Store) ClearTokens(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	var errs []error
	for _, st := range []storage.Store{s.ephemeral, s.durable} {
		if err := st.Delete(ctx, KeyAuthToken); err != nil {
			errs = append(errs, err)
		}
	}
	if len(errs) > 0 {
		return fmt.Errorf("[ClearTokens] %v", errs)
	}
	return nil
}

// Logout removes token and user from both scopes. Feature caches are kept.
func (s *Store) Logout(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	var errs []error
	for _, st := range []storage.Store{s.ephemeral, s.durable} {
		for _, key := range []string{KeyAuthToken, KeyLoggedInUser} {
			if err := st.Delete(ctx, key); err != nil {
				errs = append(errs, err)
			}
		}
	}
	if len(errs) > 0 {
		return fmt.Errorf("[Logout] %v", errs)
	}
	return nil
}

// Language returns the selected UI language, or the configured default.
func (s *Store) Language(ctx context.Context) string {
	v, err := s.durable.Get(ctx, KeySelectedLanguage)
	if err != nil {
		return s.defaultLanguage.String()
	}
	tag, err := language.Parse(v)
	if err != nil {
		return s.defaultLanguage.String()
	}
	return tag.String()
}

// SetLanguage validates and canonicalises a BCP 47 tag before storing it.
func (s *Store) SetLanguage(ctx context.Context, lang string) (string, error) {
	tag, err := language.Parse(strings.TrimSpace(lang))
	if err != nil {
		return "", perrors.Wrapf(perrors.ErrInvalidLanguage, "%q", lang)
	}
	if err := s.durable.Set(ctx, KeySelectedLanguage, tag.String()); err != nil {
		return "", err
	}
	return tag.String(), nil
}

// Credits returns the cached credit balance for email.
func (s *Store) Credits(ctx context.Context, email string) (int, bool) {
	v, err := s.durable.Get(ctx, CreditsKey(email))
	if err != nil {
		return 0, false
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, false
	}
	return n, true
}

func (s *Store) SetCredits(ctx context.Context, email string, credits int) error {
	return s.durable.Set(ctx, CreditsKey(email), strconv.Itoa(credits))
}

// SearchHistory returns recent queries, most recent first.
func (s *Store) SearchHistory(ctx context.Context, email string) []string {
	var history []string
	if err := getJSON(ctx, s.durable, SearchHistoryKey(email), &history); err != nil {
		return nil
	}
	return history
}

// AddSearch records a query at the front of the history, removing an earlier
// identical entry and trimming to the most recent maxSearchHistory queries.
func (s *Store) AddSearch(ctx context.Context, email, query string) error {
	query = strings.TrimSpace(query)
	if query == "" {
		return nil
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	var history []string
	if err := getJSON(ctx, s.durable, SearchHistoryKey(email), &history); err != nil && !perrors.Is(err, perrors.ErrNotFound) {
		log.Warn().Err(err).Msg("Session: discarding unreadable search history")
	}
	updated := make([]string, 0, len(history)+1)
	updated = append(updated, query)
	for _, h := range history {
		if !strings.EqualFold(h, query) {
			updated = append(updated, h)
		}
	}
	if len(updated) > maxSearchHistory {
		updated = updated[:maxSearchHistory]
	}
	return putJSON(ctx, s.durable, SearchHistoryKey(email), updated)
}

func (s *Store) BillingHistory(ctx context.Context, email string) []*stripe.Invoice {
	var invoices []*stripe.Invoice
	if err := getJSON(ctx, s.durable, BillingHistoryKey(email), &invoices); err != nil {
		return nil
	}
	return invoices
}

func (s *Store) SetBillingHistory(ctx context.Context, email string, invoices []*stripe.Invoice) error {
	return putJSON(ctx, s.durable, BillingHistoryKey(email), invoices)
}

func getJSON(ctx context.Context, st storage.Store, key string, v any) error {
	raw, err := st.Get(ctx, key)
	if err != nil {
		return err
	}
	if err := json.Unmarshal([]byte(raw), v); err != nil {
		return fmt.Errorf("decode %s: %w", key, err)
	}
	return nil
}

func putJSON(ctx context.Context, st storage.Store, key string, v any) error {
	raw, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("encode %s: %w", key, err)
	}
	return st.Set(ctx, key, string(raw))
}
