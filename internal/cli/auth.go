package cli

import (
	"bufio"
	"fmt"
	"strings"
	"time"

	"github.com/Makepad-fr/tadalists/internal/auth"
	"github.com/Makepad-fr/tadalists/internal/ui"
)

func runAuth(a []string, opt Options) int {
	if len(a) != 1 {
		ui.Fail("usage: tada auth <login|logout|status>")
		return 2
	}
	switch a[0] {
	case "login":
		return doAuthLogin(opt)
	case "logout":
		return doAuthLogout()
	case "status":
		return doAuthStatus(opt)
	}
	ui.Fail("usage: tada auth <login|logout|status>")
	return 2
}

func doAuthLogin(opt Options) int {
	fmt.Fprint(ui.Stdout(), "Paste your token: ")
	sc := bufio.NewScanner(opt.Stdin)
	if !sc.Scan() {
		msg := "no input"
		if err := sc.Err(); err != nil {
			msg = err.Error()
		}
		fmt.Fprintln(ui.Stdout())
		ui.Fail("read token: " + msg)
		return 1
	}
	if err := auth.SetToken(sc.Text(), nil); err != nil {
		ui.Fail("save token: " + err.Error())
		return 1
	}
	ui.OK("logged in")
	return 0
}

func doAuthLogout() int {
	ti, _ := auth.GetToken()
	if ti != nil && ti.Source == auth.SourceEnv {
		ui.OK("token is provided by " + auth.EnvToken + " env var (nothing to delete)")
		return 0
	}
	if err := auth.DeleteToken(); err != nil {
		ui.Fail("logout: " + err.Error())
		return 1
	}
	ui.OK("logged out")
	return 0
}

func doAuthStatus(opt Options) int {
	out := ui.Stdout()
	fmt.Fprintf(out, "api: %s\n", opt.Config.APIURL)
	ti, err := auth.GetToken()
	if err != nil {
		ui.Fail("read token: " + err.Error())
		return 1
	}
	if ti == nil {
		fmt.Fprintln(out, ui.Current().Muted.Render("not logged in (requests are sent without a token)"))
		fmt.Fprintln(out, "Run: tada auth login")
		return 0
	}
	fmt.Fprintf(out, "source: %s\n", ti.Source)
	fmt.Fprintf(out, "token: %s\n", mask(ti.Token))
	if ti.ExpiresAt != nil {
		fmt.Fprintf(out, "expires: %s\n", ti.ExpiresAt.UTC().Format(time.RFC3339))
	}
	fmt.Fprintln(out, "env override: "+auth.EnvToken)
	return 0
}

func mask(token string) string {
	if len(token) <= 4 {
		return strings.Repeat("*", len(token))
	}
	return strings.Repeat("*", len(token)-4) + token[len(token)-4:]
}
