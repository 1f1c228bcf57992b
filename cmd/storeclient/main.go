package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"sort"
	"strconv"
	"syscall"
	"time"

	"github.com/common-nighthawk/go-figure"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/jrsteele09/go-storefront-client/callback"
	"github.com/jrsteele09/go-storefront-client/gamedata"
	"github.com/jrsteele09/go-storefront-client/gateway"
	"github.com/jrsteele09/go-storefront-client/internal/config"
	"github.com/jrsteele09/go-storefront-client/session"
	"github.com/jrsteele09/go-storefront-client/storefront"
	"github.com/jrsteele09/go-storefront-client/tokenstore"
)

func main() {
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.Kitchen})

	if err := run(os.Args[1:]); err != nil {
		log.Fatal().Err(err).Msg("storeclient failed")
	}
}

func run(args []string) error {
	cfg, err := config.New()
	if err != nil {
		return err
	}

	store, err := tokenstore.NewFileStore(cfg.DataFolder)
	if err != nil {
		return err
	}

	// The session-invalidated hook is subscribed exactly once, here. It
	// fires no matter which call hit the 401, including background polls.
	gw, err := gateway.New(cfg.BaseURL, store,
		gateway.WithHTTPClient(&http.Client{Timeout: cfg.RequestTimeout}),
		gateway.WithInvalidationFunc(func() {
			fmt.Fprintln(os.Stderr, "Session invalidated by the backend. Run 'storeclient login-url' to sign in again.")
		}),
	)
	if err != nil {
		return err
	}

	controller, err := session.New(gw)
	if err != nil {
		return err
	}

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	controller.Initialize(ctx)

	if len(args) == 0 {
		usage()
		return nil
	}

	switch args[0] {
	case "login-url":
		return loginURL(ctx, gw)
	case "login":
		if len(args) < 2 {
			return fmt.Errorf("usage: storeclient login <callback-url>")
		}
		return login(ctx, controller, args[1])
	case "profile":
		return profile(controller)
	case "sessions":
		return listSessions(ctx, controller)
	case "switch":
		if len(args) < 2 {
			return fmt.Errorf("usage: storeclient switch <account-id>")
		}
		return switchAccount(ctx, controller, args[1])
	case "refresh":
		controller.RefreshProfile(ctx)
		return profile(controller)
	case "logout":
		controller.Logout(ctx)
		fmt.Println("Logged out.")
		return nil
	case "store":
		return dailyStore(ctx, gw)
	case "history":
		days := 7
		if len(args) > 1 {
			if days, err = strconv.Atoi(args[1]); err != nil {
				return fmt.Errorf("usage: storeclient history [days]")
			}
		}
		return storeHistory(ctx, gw, days)
	case "health":
		return health(ctx, gw)
	case "watch":
		return watch(ctx, cfg, gw)
	default:
		usage()
		return fmt.Errorf("unknown command %q", args[0])
	}
}

func usage() {
	displayAppName("storeclient")
	fmt.Println(`Commands:
  login-url          obtain the provider login URL
  login <callback>   exchange the provider redirect URL for a session
  profile            show the current account
  sessions           list all backend-held account sessions
  switch <id>        make another account the active session
  refresh            refresh server-side data and reload the profile
  logout             end the current session
  store              show the daily store rotation
  history [days]     show recent store rotations
  health             show backend game-data health
  watch              follow the store countdown and health until interrupted`)
}

func loginURL(ctx context.Context, gw *gateway.Client) error {
	authURL, err := gw.GenerateAuthURL(ctx)
	if err != nil {
		return err
	}
	fmt.Println("Open this URL, complete the provider login, then run")
	fmt.Println("'storeclient login <redirect-url>' with the final redirect URL:")
	fmt.Println(authURL.AuthURL)
	return nil
}

// login validates the provider redirect URL locally before handing it to
// the backend exchange, so a pasted URL missing its tokens fails fast
// with a usable message instead of a round trip.
func login(ctx context.Context, controller *session.Controller, callbackURL string) error {
	creds, err := callback.Extract(callbackURL)
	if err != nil {
		if errors.Is(err, callback.ErrMalformedCallback) {
			return fmt.Errorf("callback URL carries no provider tokens; paste the full redirect URL")
		}
		return err
	}
	if claims, err := callback.PeekClaims(creds.AccessToken); err == nil && claims.GameName != "" {
		fmt.Printf("Signing in as %s#%s (%s)...\n", claims.GameName, claims.TagLine, claims.Region)
	}

	if !controller.Login(ctx, callbackURL) {
		return fmt.Errorf("login failed; check your callback URL")
	}
	return profile(controller)
}

func profile(controller *session.Controller) error {
	user := controller.CurrentUser()
	if user == nil {
		fmt.Println("Not logged in.")
		return nil
	}
	fmt.Printf("%s (%s) region=%s\n", user.Username, user.RiotID(), user.Region)
	if user.Balance != nil {
		fmt.Printf("  VP: %d  RP: %d  KC: %d\n",
			user.Balance.ValorantPoints, user.Balance.RadianitePoints, user.Balance.KingdomCredits)
	}
	if user.XP != nil {
		fmt.Printf("  Level %d (%d XP)\n", user.XP.Level, user.XP.XP)
	}
	return nil
}

func listSessions(ctx context.Context, controller *session.Controller) error {
	if err := controller.RefreshSessions(ctx); err != nil {
		return err
	}
	sessions := controller.Sessions()
	if len(sessions) == 0 {
		fmt.Println("No live sessions.")
		return nil
	}

	ids := make([]string, 0, len(sessions))
	for id := range sessions {
		ids = append(ids, id)
	}
	sort.Strings(ids)

	current := ""
	if user := controller.CurrentUser(); user != nil {
		current = user.ID
	}
	for _, id := range ids {
		s := sessions[id]
		marker := " "
		if id == current {
			marker = "*"
		}
		fmt.Printf("%s %s  %s#%s  last active %s\n",
			marker, id, s.GameName, s.TagLine, s.LastActivity.Format(time.RFC3339))
	}
	return nil
}

func switchAccount(ctx context.Context, controller *session.Controller, accountID string) error {
	if !controller.SwitchAccount(ctx, accountID) {
		return fmt.Errorf("switch to %q failed", accountID)
	}
	return profile(controller)
}

func dailyStore(ctx context.Context, gw *gateway.Client) error {
	daily, err := gw.GetDailyStore(ctx)
	if err != nil {
		return err
	}
	fmt.Printf("Daily store, refreshes in %s\n",
		storefront.FormatCountdown(daily.TimeRemaining(time.Now())))
	for _, offer := range daily.Offers {
		fmt.Printf("  %s %v\n", offer.DisplayName, offer.Cost)
	}
	return nil
}

func storeHistory(ctx context.Context, gw *gateway.Client, days int) error {
	history, err := gw.GetStoreHistory(ctx, days)
	if err != nil {
		return err
	}
	for _, entry := range history.Entries {
		fmt.Println(entry.Date.Format("2006-01-02"))
		for _, offer := range entry.Offers {
			fmt.Printf("  %s\n", offer.DisplayName)
		}
	}
	return nil
}

func health(ctx context.Context, gw *gateway.Client) error {
	h, err := gw.GetGameDataHealth(ctx)
	if err != nil {
		return err
	}
	printHealth(h)
	return nil
}

func printHealth(h *gamedata.Health) {
	status := func(ok bool) string {
		if ok {
			return "ok"
		}
		return "unavailable"
	}
	fmt.Printf("initialized=%s skins=%s bundles=%s version=%s\n",
		status(h.Initialized), status(h.CacheStats.Skins),
		status(h.CacheStats.Bundles), status(h.CacheStats.Version))
}

func watch(ctx context.Context, cfg config.Config, gw *gateway.Client) error {
	displayAppName(cfg.AppName)

	poller := gamedata.NewPoller(gw.GetGameDataHealth, func(snap gamedata.Snapshot) {
		if snap.Err != nil {
			fmt.Printf("[%s] health check failed: %v\n", snap.CheckedAt.Format(time.Kitchen), snap.Err)
			return
		}
		fmt.Printf("[%s] ", snap.CheckedAt.Format(time.Kitchen))
		printHealth(snap.Health)
	}, gamedata.WithPollInterval(cfg.HealthPollInterval))
	poller.Start(ctx)
	defer poller.Stop()

	lastCountdown := ""
	watcher := storefront.NewWatcher(gw.GetDailyStore, func(daily *storefront.Daily, remaining time.Duration) {
		countdown := storefront.FormatCountdown(remaining)
		if countdown == lastCountdown {
			return
		}
		lastCountdown = countdown
		fmt.Printf("store refreshes in %s\n", countdown)
	}, storefront.WithWatchInterval(cfg.StoreWatchInterval))
	watcher.Start(ctx)
	defer watcher.Stop()

	<-ctx.Done()
	fmt.Println()
	return nil
}

func displayAppName(appname string) {
	myFigure := figure.NewFigure(appname, "cybermedium", true)
	myFigure.Print()
	fmt.Println()
}
