package web

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/gorilla/mux"
	"github.com/gorilla/websocket"
	"github.com/rkjdid/util"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/solar3s/ippower/power"
	"github.com/solar3s/ippower/www"
)

type ServerConfig struct {
	ListenAddr   string `validate:"required,hostname_port"`
	Verbose      bool
	ReadTimeout  util.Duration `validate:"gt=0"`
	WriteTimeout util.Duration `validate:"gt=0"`
}

var DefaultServerConfig = ServerConfig{
	ListenAddr:   "localhost:3637",
	ReadTimeout:  util.Duration(4 * time.Second),
	WriteTimeout: util.Duration(4 * time.Second),
}

const (
	wsWriteWait     = 10 * time.Second
	shutdownTimeout = 5 * time.Second
)

// Server exposes the power settings over http.
type Server struct {
	// OnFatal is called once a firmware or I/O failure has been reported to
	// the client. The daemon shuts down from there.
	OnFatal func(Report)

	Config  *ServerConfig
	Ctl     power.SettingsController
	Watcher *power.Watcher

	version    string
	router     *mux.Router
	wsUpgrader *websocket.Upgrader
	log        zerolog.Logger
}

// SettingValue is the body of the /settings/{setting} endpoints. Requests
// only need Value.
type SettingValue struct {
	Setting power.Setting
	Value   string
}

func NewServer(version string, ctl power.SettingsController, watcher *power.Watcher, cfg *ServerConfig) *Server {
	if cfg == nil {
		cfg = &DefaultServerConfig
	}
	s := &Server{
		Config:  cfg,
		Ctl:     ctl,
		Watcher: watcher,
		version: version,
		wsUpgrader: &websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
		},
		log: log.With().Str("component", "web").Logger(),
	}

	verbose := cfg.Verbose
	s.router = mux.NewRouter()

	// shh
	s.router.Handle("/favicon.ico", http.HandlerFunc(www.NilHandler))

	s.router.Handle("/version",
		www.Logger(http.HandlerFunc(s.Version), "version", verbose)).
		Methods("GET", "HEAD")
	s.router.Handle("/settings",
		www.Logger(http.HandlerFunc(s.Settings), "settings", verbose)).
		Methods("GET", "HEAD")
	s.router.Handle("/settings/{setting}",
		www.Logger(http.HandlerFunc(s.Setting), "setting", verbose)).
		Methods("GET", "HEAD", "PUT", "POST")
	s.router.Handle("/profile",
		www.Logger(http.HandlerFunc(s.Profile), "profile", verbose)).
		Methods("POST")
	s.router.Handle("/snapshot",
		www.Logger(http.HandlerFunc(s.Snapshot), "snapshot", verbose)).
		Methods("GET", "HEAD")
	s.router.Handle("/history",
		www.Logger(http.HandlerFunc(s.History), "history", verbose)).
		Methods("GET", "HEAD")
	s.router.Handle("/websocket",
		www.Logger(http.HandlerFunc(s.Websocket), "ws-snapshot", verbose)).
		Methods("GET")
	return s
}

func (s *Server) Handler() http.Handler {
	return s.router
}

// ListenAndServe serves until ctx is done, then shuts the server down.
func (s *Server) ListenAndServe(ctx context.Context) error {
	httpServer := &http.Server{
		Handler:      s.router,
		Addr:         s.Config.ListenAddr,
		ReadTimeout:  time.Duration(s.Config.ReadTimeout),
		WriteTimeout: time.Duration(s.Config.WriteTimeout),
	}

	errCh := make(chan error, 1)
	go func() {
		errCh <- httpServer.ListenAndServe()
	}()
	s.log.Info().Str("addr", s.Config.ListenAddr).Msg("webserver started")

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		return err
	}
	if err := <-errCh; !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

func (s *Server) Version(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"Version": s.version})
}

// Settings encodes the current State.
func (s *Server) Settings(w http.ResponseWriter, _ *http.Request) {
	st, err := s.Ctl.State()
	if err != nil {
		s.fail(w, OpState, nil, err)
		return
	}
	writeJSON(w, http.StatusOK, st)
}

// Setting GET: reads one setting
//
//	PUT, POST: sets it from a {"Value": ...} body, then refreshes the watcher
func (s *Server) Setting(w http.ResponseWriter, r *http.Request) {
	setting, err := power.ParseSetting(mux.Vars(r)["setting"])
	if err != nil {
		s.reject(w, http.StatusNotFound, OpGet, nil, err)
		return
	}

	switch r.Method {
	case http.MethodPut, http.MethodPost:
		var body SettingValue
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			s.reject(w, http.StatusUnprocessableEntity, OpSet, &setting,
				&power.ValueError{Msg: "couldn't decode provided json", BadValue: err.Error()})
			return
		}
		v, err := power.ParseValue(body.Value)
		if err == nil {
			_, err = setting.Encode(v)
		}
		if err != nil {
			s.reject(w, http.StatusUnprocessableEntity, OpSet, &setting, err)
			return
		}

		if err := s.Ctl.Set(setting, v); err != nil {
			s.fail(w, OpSet, &setting, err)
			return
		}
		s.log.Info().Stringer("setting", setting).Stringer("value", v).Msg("power setting updated")
		s.refresh()
		writeJSON(w, http.StatusOK, SettingValue{Setting: setting, Value: v.String()})
		return
	}

	v, err := s.Ctl.Get(setting)
	if err != nil {
		s.fail(w, OpGet, &setting, err)
		return
	}
	writeJSON(w, http.StatusOK, SettingValue{Setting: setting, Value: v.String()})
}

// Profile applies the posted profile and encodes the resulting snapshot.
func (s *Server) Profile(w http.ResponseWriter, r *http.Request) {
	var p power.Profile
	if err := json.NewDecoder(r.Body).Decode(&p); err != nil {
		var valueErr *power.ValueError
		if !errors.As(err, &valueErr) {
			err = &power.ValueError{Msg: "couldn't decode provided json", BadValue: err.Error()}
		}
		s.reject(w, http.StatusUnprocessableEntity, OpApply, nil, err)
		return
	}
	if err := p.Validate(); err != nil {
		s.reject(w, http.StatusUnprocessableEntity, OpApply, nil, err)
		return
	}

	if err := s.Ctl.Apply(p); err != nil {
		s.fail(w, OpApply, nil, err)
		return
	}
	s.log.Info().Interface("profile", p).Msg("power profile applied")
	writeJSON(w, http.StatusOK, s.refresh())
}

// Snapshot encodes the latest watcher snapshot, polling if there is none.
func (s *Server) Snapshot(w http.ResponseWriter, _ *http.Request) {
	sn, ok := s.Watcher.Last()
	if !ok {
		sn = s.Watcher.Refresh()
	}
	writeJSON(w, http.StatusOK, sn)
}

func (s *Server) History(w http.ResponseWriter, _ *http.Request) {
	changes := s.Watcher.History().Changes()
	if changes == nil {
		changes = []power.Change{}
	}
	writeJSON(w, http.StatusOK, changes)
}

// Websocket pushes every new snapshot to the client until either side
// closes the connection.
func (s *Server) Websocket(w http.ResponseWriter, r *http.Request) {
	conn, err := s.wsUpgrader.Upgrade(w, r, nil)
	if err != nil {
		// Upgrade already answered the client
		s.log.Warn().Err(err).Msg("error subscribing to websocket")
		return
	}
	s.log.Debug().Stringer("remote", conn.RemoteAddr()).Msg("websocket subscription")

	snapshots, cancel := s.Watcher.Subscribe()

	// reader: only there to notice the client going away
	go func() {
		defer cancel()
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()

	go func() {
		defer conn.Close()
		defer cancel()
		for sn := range snapshots {
			_ = conn.SetWriteDeadline(time.Now().Add(wsWriteWait))
			if err := conn.WriteJSON(sn); err != nil {
				s.log.Debug().Stringer("remote", conn.RemoteAddr()).Msg("websocket lost connection")
				return
			}
		}
		_ = conn.WriteControl(websocket.CloseMessage,
			websocket.FormatCloseMessage(websocket.CloseGoingAway, "shutting down"),
			time.Now().Add(wsWriteWait))
	}()
}

func (s *Server) refresh() power.Snapshot {
	if s.Watcher == nil {
		return power.Snapshot{}
	}
	return s.Watcher.Refresh()
}

// reject answers a client error. The daemon keeps running.
func (s *Server) reject(w http.ResponseWriter, status int, op string, setting *power.Setting, err error) {
	rep := NewReport(op, setting, err)
	s.log.Warn().Err(err).Str("op", op).Msg("request rejected")
	writeJSON(w, status, rep)
}

// fail answers a firmware or I/O failure, then hands it to OnFatal.
func (s *Server) fail(w http.ResponseWriter, op string, setting *power.Setting, err error) {
	rep := NewReport(op, setting, err)
	rep.Fatal = true
	status := http.StatusBadGateway
	if rep.Kind == power.KindIO {
		status = http.StatusInternalServerError
	}
	s.log.Error().Err(err).Str("op", op).Str("kind", rep.Kind).Msg(rep.Action)
	writeJSON(w, status, rep)

	if s.OnFatal != nil {
		s.OnFatal(rep)
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Warn().Err(err).Msg("error encoding json response")
	}
}
