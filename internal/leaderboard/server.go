package leaderboard

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"unicode/utf8"

	"github.com/charmbracelet/log"

	"github.com/vovakirdan/minesweeper/internal/games/minesweeper"
	"github.com/vovakirdan/minesweeper/internal/storage"
)

// MaxUsernameLength caps submitted names, in runes.
const MaxUsernameLength = 32

// DefaultTopN is the number of entries served per difficulty.
const DefaultTopN = 10

const maxBodyBytes = 4 << 10

var (
	errEmptyUsername = errors.New("username must not be empty")
	errLongUsername  = fmt.Errorf("username must be at most %d characters", MaxUsernameLength)
	errNegativeTime  = errors.New("time must not be negative")
)

// Repository persists submitted times. *storage.Store implements it.
type Repository interface {
	SubmitTime(username string, d minesweeper.Difficulty, seconds int) error
	TopTimes(d minesweeper.Difficulty, limit int) ([]storage.TimeEntry, error)
}

// ServerOptions configures a Server.
type ServerOptions struct {
	TopN           int
	AllowedOrigins []string
	Logger         *log.Logger
}

// Server serves the leaderboard over HTTP.
type Server struct {
	repo    Repository
	topN    int
	origins []string
	logger  *log.Logger
	mux     *http.ServeMux
}

// NewServer returns a server backed by repo.
func NewServer(repo Repository, opts ServerOptions) *Server {
	if opts.TopN <= 0 {
		opts.TopN = DefaultTopN
	}
	if opts.Logger == nil {
		opts.Logger = log.New(io.Discard)
	}

	s := &Server{
		repo:    repo,
		topN:    opts.TopN,
		origins: opts.AllowedOrigins,
		logger:  opts.Logger,
		mux:     http.NewServeMux(),
	}
	s.mux.HandleFunc("POST "+Path, s.handleSubmit)
	s.mux.HandleFunc("GET "+Path, s.handleStandings)
	s.mux.HandleFunc("GET /healthz", s.handleHealth)
	return s
}

// Handler returns the routes wrapped in CORS and request logging.
func (s *Server) Handler() http.Handler {
	return Wrap(s.mux, CORS(s.origins), Logging(s.logger))
}

func (s *Server) handleSubmit(w http.ResponseWriter, r *http.Request) {
	var sub submission
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	if err := dec.Decode(&sub); err != nil {
		s.sendError(w, http.StatusBadRequest, fmt.Errorf("invalid body: %w", err))
		return
	}

	d, err := validate(&sub)
	if err != nil {
		s.sendError(w, http.StatusBadRequest, err)
		return
	}

	if err := s.repo.SubmitTime(sub.Username, d, sub.Time); err != nil {
		s.logger.Error("cannot store submission", "err", err)
		s.sendError(w, http.StatusInternalServerError, errors.New("cannot store submission"))
		return
	}

	s.logger.Info("time submitted", "username", sub.Username, "mode", d, "time", sub.Time)
	s.sendJSON(w, http.StatusCreated, Entry{Username: sub.Username, Time: sub.Time})
}

func (s *Server) handleStandings(w http.ResponseWriter, r *http.Request) {
	standings := make(map[string][]Entry, 3)
	for _, d := range minesweeper.Difficulties() {
		rows, err := s.repo.TopTimes(d, s.topN)
		if err != nil {
			s.logger.Error("cannot load standings", "mode", d, "err", err)
			s.sendError(w, http.StatusInternalServerError, errors.New("cannot load standings"))
			return
		}
		entries := make([]Entry, 0, len(rows))
		for _, row := range rows {
			entries = append(entries, Entry{Username: row.Username, Time: row.Seconds})
		}
		standings[string(d)] = entries
	}
	s.sendJSON(w, http.StatusOK, standings)
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	s.sendJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// validate normalises sub in place and resolves its mode.
func validate(sub *submission) (minesweeper.Difficulty, error) {
	sub.Username = strings.TrimSpace(sub.Username)
	switch {
	case sub.Username == "":
		return "", errEmptyUsername
	case utf8.RuneCountInString(sub.Username) > MaxUsernameLength:
		return "", errLongUsername
	case sub.Time < 0:
		return "", errNegativeTime
	}
	return minesweeper.ParseDifficulty(sub.Mode)
}

func (s *Server) sendJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		s.logger.Error("unable to send response", "err", err)
	}
}

func (s *Server) sendError(w http.ResponseWriter, code int, err error) {
	s.sendJSON(w, code, errorBody{Error: err.Error()})
}
