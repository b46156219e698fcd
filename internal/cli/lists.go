package cli

import (
	"context"
	"fmt"
	"strings"

	"github.com/Makepad-fr/tadalists/internal/lists"
	"github.com/Makepad-fr/tadalists/internal/ui"
)

func runList(ctx context.Context, a []string, opt Options) int {
	if len(a) == 0 {
		ui.Fail("usage: tada list <add|rename|rm> ...")
		return 2
	}
	sub, a := a[0], a[1:]
	switch sub {
	case "add":
		if len(a) == 0 {
			ui.Fail("usage: tada list add <name...>")
			return 2
		}
		return doListAdd(ctx, strings.Join(a, " "), opt)
	case "rename", "mv":
		if len(a) < 2 {
			ui.Fail("usage: tada list rename <list> <name...>")
			return 2
		}
		return doListRename(ctx, a[0], strings.Join(a[1:], " "), opt)
	case "rm":
		if len(a) != 1 {
			ui.Fail("usage: tada list rm <list>")
			return 2
		}
		return doListRemove(ctx, a[0], opt)
	}
	ui.Fail("usage: tada list <add|rename|rm> ...")
	return 2
}

// loadLists fetches the collection; used by every list-scoped command.
func loadLists(ctx context.Context, opt Options) (*lists.Store, int) {
	s := opt.listStore()
	if err := s.Fetch(ctx); err != nil {
		ui.Fail(s.Err() + ": " + err.Error())
		return nil, 1
	}
	return s, 0
}

func doLists(ctx context.Context, opt Options) int {
	s, code := loadLists(ctx, opt)
	if s == nil {
		return code
	}
	ui.Panel(listLines(s))
	return 0
}

func doListAdd(ctx context.Context, name string, opt Options) int {
	s, code := loadLists(ctx, opt)
	if s == nil {
		return code
	}
	l, err := s.Add(ctx, name)
	if err != nil {
		return failErr("add list", err)
	}
	ui.OK(fmt.Sprintf("added list %q (id %s)", l.Name, l.ID))
	return 0
}

func doListRename(ctx context.Context, ref, name string, opt Options) int {
	s, code := loadLists(ctx, opt)
	if s == nil {
		return code
	}
	l, err := s.Resolve(ref)
	if err != nil {
		return failErr("rename list", err)
	}
	renamed, err := s.Rename(ctx, l.ID, name)
	if err != nil {
		return failErr("rename list", err)
	}
	ui.OK(fmt.Sprintf("renamed %q to %q", l.Name, renamed.Name))
	return 0
}

func doListRemove(ctx context.Context, ref string, opt Options) int {
	s, code := loadLists(ctx, opt)
	if s == nil {
		return code
	}
	l, err := s.Resolve(ref)
	if err != nil {
		return failErr("remove list", err)
	}
	if err := s.Remove(ctx, l.ID); err != nil {
		return failErr("remove list", err)
	}
	ui.OK(fmt.Sprintf("removed list %q and its todos", l.Name))
	return 0
}
