package core

// Request types

type CreateGameRequest struct {
	Start bool `json:"start"` // start immediately with the standard layout
}

type PickRequest struct {
	Row *int `json:"row" validate:"required,min=0,max=7"`
	Col *int `json:"col" validate:"required,min=0,max=7"`
}

// Response types

type SquareInfo struct {
	Row  int    `json:"row"`
	Col  int    `json:"col"`
	Name string `json:"name"` // algebraic, e.g. "e2"
}

type PieceInfo struct {
	ID     int        `json:"id"`
	Type   string     `json:"type"`
	Color  string     `json:"color"` // "w" or "b"
	Square SquareInfo `json:"square"`
}

// CapturedPieces lists piece types taken by each side, in capture order
type CapturedPieces struct {
	White []string `json:"white"`
	Black []string `json:"black"`
}

type GameResponse struct {
	GameID    string         `json:"gameId"`
	Phase     string         `json:"phase"` // "not_started", "active", "ended"
	Turn      string         `json:"turn"`  // "w" or "b"
	Selected  *SquareInfo    `json:"selected,omitempty"`
	Pieces    []PieceInfo    `json:"pieces"`
	Placement string         `json:"placement"`
	Captured  CapturedPieces `json:"captured"`
	Winner    string         `json:"winner,omitempty"`
	Moves     int            `json:"moves"`
	Version   uint64         `json:"version"`
}

type PickResponse struct {
	Outcome  string        `json:"outcome"` // "ignored", "selected", "moved", "rejected"
	From     *SquareInfo   `json:"from,omitempty"`
	To       *SquareInfo   `json:"to,omitempty"`
	Targets  []SquareInfo  `json:"targets,omitempty"`
	Captured *PieceInfo    `json:"captured,omitempty"`
	GameOver bool          `json:"gameOver,omitempty"`
	Winner   string        `json:"winner,omitempty"`
	Final    *GameResponse `json:"final,omitempty"` // position at the moment the king fell
	Game     GameResponse  `json:"game"`
}

type BoardResponse struct {
	Placement string `json:"placement"`
	Board     string `json:"board"` // ASCII representation
}

type ErrorResponse struct {
	Error   string `json:"error"`
	Code    string `json:"code"`
	Details string `json:"details,omitempty"`
}

// NewSquareInfo converts a square to its wire form
func NewSquareInfo(s Square) SquareInfo {
	return SquareInfo{Row: s.Row, Col: s.Col, Name: s.String()}
}

// NewPieceInfo converts a piece to its wire form
func NewPieceInfo(p Piece) PieceInfo {
	return PieceInfo{
		ID:     p.ID,
		Type:   p.Type.String(),
		Color:  p.Color.String(),
		Square: NewSquareInfo(p.Pos),
	}
}

// PieceTypeNames converts a ledger to its wire form, never nil
func PieceTypeNames(types []PieceType) []string {
	names := make([]string, 0, len(types))
	for _, t := range types {
		names = append(names, t.String())
	}
	return names
}
