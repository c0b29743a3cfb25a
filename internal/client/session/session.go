package session

import (
	"pickchess/internal/client/api"
	"pickchess/internal/core"
)

// Session holds the debug client's state between commands
type Session struct {
	APIBaseURL       string
	Client           *api.Client
	CurrentGame      string
	CurrentGameState *core.GameResponse
	LastVersion      uint64
	Verbose          bool
}

// New returns a session pointed at baseURL
func New(baseURL string) *Session {
	return &Session{
		APIBaseURL: baseURL,
		Client:     api.New(baseURL),
	}
}

func (s *Session) GetAPIBaseURL() string    { return s.APIBaseURL }
func (s *Session) SetAPIBaseURL(url string) { s.APIBaseURL = url }
func (s *Session) GetCurrentGame() string   { return s.CurrentGame }
func (s *Session) GetClient() *api.Client   { return s.Client }
func (s *Session) IsVerbose() bool          { return s.Verbose }
func (s *Session) GetLastVersion() uint64   { return s.LastVersion }
func (s *Session) SetLastVersion(v uint64)  { s.LastVersion = v }

// SetCurrentGame switches games and forgets the previous game's state
func (s *Session) SetCurrentGame(id string) {
	if id != s.CurrentGame {
		s.CurrentGameState = nil
		s.LastVersion = 0
	}
	s.CurrentGame = id
}

// SetGameState records the latest known state and its version
func (s *Session) SetGameState(g *core.GameResponse) {
	s.CurrentGameState = g
	if g != nil {
		s.LastVersion = g.Version
	}
}

func (s *Session) GetGameState() *core.GameResponse { return s.CurrentGameState }
