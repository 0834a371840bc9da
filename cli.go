package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/solar3s/ippower/internal/syncutil"
	"github.com/solar3s/ippower/power"
	"github.com/solar3s/ippower/web"
	"gopkg.in/yaml.v3"
)

type cli struct {
	cfg    *web.Config
	out    io.Writer
	errOut io.Writer
	format string
	// sim is the firmware used when cfg.Simulate is set.
	sim *power.Simulator
}

func (c *cli) run(args []string) int {
	switch c.format {
	case "text", "json", "yaml":
	default:
		return c.usage(fmt.Errorf("unknown output format %q", c.format))
	}

	cmd := "status"
	if len(args) > 0 {
		cmd, args = args[0], args[1:]
	}
	nargs := map[string]int{"status": 0, "get": 1, "set": 2, "apply": 0, "serve": 0}
	n, ok := nargs[cmd]
	if !ok {
		return c.usage(fmt.Errorf("unknown command %q", cmd))
	}
	if len(args) != n {
		return c.usage(fmt.Errorf("%s takes %d argument(s), got %d", cmd, n, len(args)))
	}

	ctl, err := c.open()
	if err != nil {
		return c.fatal(web.NewReport(web.OpOpen, nil, err))
	}

	switch cmd {
	case "get":
		return c.get(ctl, args[0])
	case "set":
		return c.set(ctl, args[0], args[1])
	case "apply":
		return c.apply(ctl)
	case "serve":
		return c.serve(ctl)
	default:
		return c.status(ctl)
	}
}

func (c *cli) open() (*power.Controller, error) {
	if c.cfg.Simulate {
		if c.sim == nil {
			c.sim = power.NewSimulator()
		}
		log.Warn().Msg("using a simulated firmware, nothing reaches the hardware")
		return power.NewController(c.sim), nil
	}
	return power.Open(c.cfg.CallPath)
}

func (c *cli) status(ctl *power.Controller) int {
	st, err := ctl.State()
	if err != nil {
		return c.fatal(web.NewReport(web.OpState, nil, err))
	}
	return c.print(st)
}

func (c *cli) get(ctl *power.Controller, name string) int {
	s, err := power.ParseSetting(name)
	if err != nil {
		return c.usage(err)
	}
	v, err := ctl.Get(s)
	if err != nil {
		return c.fatal(web.NewReport(web.OpGet, &s, err))
	}
	return c.print(web.SettingValue{Setting: s, Value: v.String()})
}

func (c *cli) set(ctl *power.Controller, name, value string) int {
	s, err := power.ParseSetting(name)
	if err != nil {
		return c.usage(err)
	}
	v, err := power.ParseValue(value)
	if err == nil {
		_, err = s.Encode(v)
	}
	if err != nil {
		return c.usage(err)
	}

	if err := ctl.Set(s, v); err != nil {
		return c.fatal(web.NewReport(web.OpSet, &s, err))
	}
	log.Info().Stringer("setting", s).Stringer("value", v).Msg("power setting updated")
	return c.print(web.SettingValue{Setting: s, Value: v.String()})
}

func (c *cli) apply(ctl *power.Controller) int {
	if c.cfg.Profile.Empty() {
		fmt.Fprintln(c.errOut, "no profile configured, nothing to apply")
		return exitConfig
	}
	if err := ctl.Apply(c.cfg.Profile); err != nil {
		return c.fatal(web.NewReport(web.OpApply, nil, err))
	}
	return c.status(ctl)
}

func (c *cli) serve(ctl *power.Controller) int {
	shared := power.NewShared(ctl)
	if c.cfg.ApplyProfile && !c.cfg.Profile.Empty() {
		if err := shared.Apply(c.cfg.Profile); err != nil {
			return c.fatal(web.NewReport(web.OpApply, nil, err))
		}
		log.Info().Interface("profile", c.cfg.Profile).Msg("power profile applied")
	}

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	var (
		mu       syncutil.Mutex
		fatalRep *web.Report
	)
	onFatal := func(rep web.Report) {
		mu.Lock()
		defer mu.Unlock()
		if fatalRep == nil {
			fatalRep = &rep
		}
		cancel()
	}

	log.Info().Dur("pollrate", time.Duration(c.cfg.Watcher.PollRate)).Msg("starting watcher")
	watcher := power.NewWatcher(shared, &c.cfg.Watcher, nil, nil)
	watcher.OnError = func(err error) {
		onFatal(web.NewReport(web.OpState, nil, err))
	}
	watcher.Watch()

	srv := web.NewServer(Version, shared, watcher, &c.cfg.Web)
	srv.OnFatal = onFatal
	log.Info().Msgf("starting webserver on http://%s, press <Ctrl-C> to quit", c.cfg.Web.ListenAddr)
	err := srv.ListenAndServe(ctx)
	watcher.Stop()

	mu.Lock()
	defer mu.Unlock()
	if fatalRep != nil {
		return c.fatal(*fatalRep)
	}
	if err != nil && !errors.Is(err, http.ErrServerClosed) {
		log.Error().Err(err).Msg("webserver failed")
		return exitConfig
	}
	log.Info().Msg("quit received")
	return exitOK
}

func (c *cli) print(v any) int {
	var err error
	switch c.format {
	case "json":
		enc := json.NewEncoder(c.out)
		enc.SetIndent("", "  ")
		err = enc.Encode(v)
	case "yaml":
		enc := yaml.NewEncoder(c.out)
		err = enc.Encode(v)
		if err == nil {
			err = enc.Close()
		}
	default:
		err = printText(c.out, v)
	}
	if err != nil {
		fmt.Fprintln(c.errOut, "error writing output:", err)
		return exitConfig
	}
	return exitOK
}

func printText(w io.Writer, v any) error {
	var err error
	switch v := v.(type) {
	case power.State:
		for _, s := range power.Settings {
			if _, err = fmt.Fprintf(w, "%-28s %s\n", s.Description()+":", v.Get(s)); err != nil {
				return err
			}
		}
	case web.SettingValue:
		_, err = fmt.Fprintf(w, "%s: %s\n", v.Setting.Description(), v.Value)
	default:
		_, err = fmt.Fprintln(w, v)
	}
	return err
}

func (c *cli) usage(err error) int {
	fmt.Fprintln(c.errOut, "error:", err)
	fmt.Fprintf(c.errOut, "run with -h for usage\n")
	return exitUsage
}

// fatal prints rep the way every front-end reports a failed firmware call.
func (c *cli) fatal(rep web.Report) int {
	log.Error().Str("op", rep.Op).Str("kind", rep.Kind).Msg(rep.Message)
	fmt.Fprintf(c.errOut, "Fatal IPPower error\n%s\n", rep)
	return exitFatal
}
