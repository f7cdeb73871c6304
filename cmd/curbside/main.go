// Command curbside logs in to the curbside backend from a terminal.
//
//	curbside login -email user@x.com -password secret1
//	curbside whoami
//	curbside profile -name "New Name"
//	curbside logout
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"

	"github.com/dmitrymomot/curbside/pkg/apiclient"
	"github.com/dmitrymomot/curbside/pkg/config"
	"github.com/dmitrymomot/curbside/pkg/logger"
	"github.com/dmitrymomot/curbside/pkg/redis"
	"github.com/dmitrymomot/curbside/pkg/requestid"
	"github.com/dmitrymomot/curbside/pkg/session"
)

type cliConfig struct {
	// SessionFile overrides the token file location.
	SessionFile string `env:"CURBSIDE_SESSION_FILE"`
	// Password is the default for the -password flag.
	Password string `env:"CURBSIDE_PASSWORD"`
}

const usage = `usage: curbside <command> [flags]

commands:
  login     -email -password
  register  -name -email -password
  whoami
  profile   -name
  logout
`

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	err := run(ctx, os.Args[1:], os.Stdout, os.Stderr)
	stop()

	var exit exitError
	switch {
	case errors.As(err, &exit):
		os.Exit(int(exit))
	case err != nil:
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

type exitError int

func (e exitError) Error() string { return fmt.Sprintf("exit status %d", int(e)) }

func run(ctx context.Context, args []string, stdout, stderr io.Writer) error {
	if len(args) == 0 {
		fmt.Fprint(stderr, usage)
		return exitError(2)
	}

	var (
		logCfg     logger.Config
		apiCfg     apiclient.Config
		sessionCfg session.Config
		redisCfg   redis.Config
		cli        cliConfig
	)
	for _, load := range []error{
		config.Load(&logCfg),
		config.Load(&apiCfg),
		config.Load(&sessionCfg),
		config.Load(&redisCfg),
		config.Load(&cli),
	} {
		if load != nil {
			return load
		}
	}

	log := logger.New(
		logger.WithConfig(logCfg),
		logger.WithOutput(stderr),
		logger.WithService("curbside"),
		logger.WithContextExtractors(requestid.LoggerExtractor()),
	)

	store, closeStore, err := openStore(ctx, cli, redisCfg)
	if err != nil {
		return err
	}
	defer closeStore()

	client, err := apiclient.NewFromConfig(apiCfg, apiclient.WithLogger(log))
	if err != nil {
		return err
	}

	mgr := session.New(client,
		session.WithConfig(sessionCfg),
		session.WithStore(store),
		session.WithLogger(log),
		session.WithNavigator(session.NavigatorFunc(func(_ context.Context, path string) {
			fmt.Fprintf(stderr, "-> %s\n", path)
		})),
	)
	defer mgr.Close()

	cmd, rest := args[0], args[1:]
	switch cmd {
	case "login":
		return login(ctx, mgr, cli.Password, rest, stdout, stderr)
	case "register":
		return register(ctx, mgr, cli.Password, rest, stdout, stderr)
	case "whoami":
		mgr.Restore(ctx)
		return whoami(mgr, stdout)
	case "profile":
		mgr.Restore(ctx)
		return profile(ctx, mgr, rest, stdout, stderr)
	case "logout":
		mgr.Logout(ctx)
		fmt.Fprintln(stdout, "logged out")
		return nil
	default:
		fmt.Fprintf(stderr, "unknown command %q\n\n%s", cmd, usage)
		return exitError(2)
	}
}

func openStore(ctx context.Context, cli cliConfig, redisCfg redis.Config) (session.Store, func(), error) {
	if redisCfg.Enabled() {
		client, err := redis.Connect(ctx, redisCfg)
		if err != nil {
			return nil, nil, err
		}
		return session.NewRedisStore(client, session.WithTTL(redisCfg.SessionTTL)), func() { _ = client.Close() }, nil
	}

	path := cli.SessionFile
	if path == "" {
		var err error
		if path, err = session.DefaultFilePath(); err != nil {
			return nil, nil, err
		}
	}
	return session.NewFileStore(path), func() {}, nil
}

func login(ctx context.Context, mgr *session.Manager, defaultPassword string, args []string, stdout, stderr io.Writer) error {
	fs := flag.NewFlagSet("login", flag.ContinueOnError)
	fs.SetOutput(stderr)
	email := fs.String("email", "", "account email")
	password := fs.String("password", defaultPassword, "account password (default $CURBSIDE_PASSWORD)")
	if err := fs.Parse(args); err != nil {
		return exitError(2)
	}

	user, err := mgr.Login(ctx, *email, *password)
	if err != nil {
		return reportAuthError(stderr, err)
	}
	printUser(stdout, user)
	return nil
}

func register(ctx context.Context, mgr *session.Manager, defaultPassword string, args []string, stdout, stderr io.Writer) error {
	fs := flag.NewFlagSet("register", flag.ContinueOnError)
	fs.SetOutput(stderr)
	name := fs.String("name", "", "full name")
	email := fs.String("email", "", "account email")
	password := fs.String("password", defaultPassword, "account password (default $CURBSIDE_PASSWORD)")
	if err := fs.Parse(args); err != nil {
		return exitError(2)
	}

	user, err := mgr.Register(ctx, *name, *email, *password)
	if err != nil {
		return reportAuthError(stderr, err)
	}
	printUser(stdout, user)
	return nil
}

func whoami(mgr *session.Manager, stdout io.Writer) error {
	user, ok := mgr.User()
	if !ok {
		fmt.Fprintln(stdout, "not logged in")
		return exitError(1)
	}
	printUser(stdout, user)
	if exp := mgr.State().ExpiresAt; !exp.IsZero() {
		fmt.Fprintf(stdout, "session expires %s\n", exp.Local().Format("2006-01-02 15:04"))
	}
	return nil
}

func profile(ctx context.Context, mgr *session.Manager, args []string, stdout, stderr io.Writer) error {
	fs := flag.NewFlagSet("profile", flag.ContinueOnError)
	fs.SetOutput(stderr)
	name := fs.String("name", "", "new full name")
	if err := fs.Parse(args); err != nil {
		return exitError(2)
	}

	user, err := mgr.UpdateProfile(ctx, session.ProfileUpdate{FullName: *name})
	if err != nil {
		fmt.Fprintln(stderr, session.ProfileErrorMessage(err))
		writeFieldErrors(stderr, err)
		return exitError(1)
	}
	printUser(stdout, user)
	return nil
}

func reportAuthError(stderr io.Writer, err error) error {
	fmt.Fprintln(stderr, session.ErrorMessage(err))
	writeFieldErrors(stderr, err)
	return exitError(1)
}

func writeFieldErrors(w io.Writer, err error) {
	for field, msg := range apiclient.FieldErrors(err) {
		fmt.Fprintf(w, "  %s: %s\n", field, msg)
	}
}

func printUser(w io.Writer, u session.User) {
	fmt.Fprintf(w, "%s <%s>", u.FullName, u.Email)
	if len(u.Roles) > 0 {
		fmt.Fprintf(w, " [%s]", strings.Join(u.Roles, ", "))
	}
	fmt.Fprintln(w)
}
