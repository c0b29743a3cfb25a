package processor

import (
	"errors"

	"pickchess/internal/core"
	"pickchess/internal/game"
	"pickchess/internal/service"
)

// Processor executes commands against the service and shapes API responses
type Processor struct {
	svc *service.Service
}

// New creates a processor bound to svc
func New(svc *service.Service) *Processor {
	return &Processor{svc: svc}
}

func (p *Processor) Execute(cmd Command) ProcessorResponse {
	switch cmd.Type {
	case CmdCreateGame:
		return p.handleCreateGame(cmd)
	case CmdGetGame:
		return p.handleGetGame(cmd)
	case CmdDeleteGame:
		return p.handleDeleteGame(cmd)
	case CmdStartGame:
		return p.handleStartGame(cmd)
	case CmdEndGame:
		return p.handleEndGame(cmd)
	case CmdPick:
		return p.handlePick(cmd)
	case CmdGetBoard:
		return p.handleGetBoard(cmd)
	default:
		return p.errorResponse("unknown command", core.ErrInvalidRequest)
	}
}

func (p *Processor) handleCreateGame(cmd Command) ProcessorResponse {
	args, ok := cmd.Args.(core.CreateGameRequest)
	if !ok {
		return p.errorResponse("invalid arguments", core.ErrInvalidRequest)
	}
	id, snap := p.svc.CreateGame(args.Start)
	return ProcessorResponse{Success: true, Data: BuildGameResponse(id, snap)}
}

func (p *Processor) handleGetGame(cmd Command) ProcessorResponse {
	snap, err := p.svc.Snapshot(cmd.GameID)
	if err != nil {
		return p.serviceError(err)
	}
	return ProcessorResponse{Success: true, Data: BuildGameResponse(cmd.GameID, snap)}
}

func (p *Processor) handleDeleteGame(cmd Command) ProcessorResponse {
	if err := p.svc.DeleteGame(cmd.GameID); err != nil {
		return p.serviceError(err)
	}
	return ProcessorResponse{Success: true}
}

func (p *Processor) handleStartGame(cmd Command) ProcessorResponse {
	snap, err := p.svc.StartGame(cmd.GameID)
	if err != nil {
		return p.serviceError(err)
	}
	return ProcessorResponse{Success: true, Data: BuildGameResponse(cmd.GameID, snap)}
}

func (p *Processor) handleEndGame(cmd Command) ProcessorResponse {
	snap, err := p.svc.EndGame(cmd.GameID)
	if err != nil {
		return p.serviceError(err)
	}
	return ProcessorResponse{Success: true, Data: BuildGameResponse(cmd.GameID, snap)}
}

func (p *Processor) handlePick(cmd Command) ProcessorResponse {
	args, ok := cmd.Args.(core.PickRequest)
	if !ok || args.Row == nil || args.Col == nil {
		return p.errorResponse("invalid arguments", core.ErrInvalidRequest)
	}
	sq := core.Square{Row: *args.Row, Col: *args.Col}

	res, snap, err := p.svc.Pick(cmd.GameID, sq)
	if err != nil {
		return p.serviceError(err)
	}
	return ProcessorResponse{Success: true, Data: BuildPickResponse(cmd.GameID, res, snap)}
}

func (p *Processor) handleGetBoard(cmd Command) ProcessorResponse {
	placement, ascii, err := p.svc.Board(cmd.GameID)
	if err != nil {
		return p.serviceError(err)
	}
	return ProcessorResponse{Success: true, Data: core.BoardResponse{Placement: placement, Board: ascii}}
}

// serviceError maps service errors to stable codes
func (p *Processor) serviceError(err error) ProcessorResponse {
	switch {
	case errors.Is(err, core.ErrNotFound):
		return p.errorResponse("game not found", core.ErrGameNotFound)
	case errors.Is(err, core.ErrInvalidSquare):
		return ProcessorResponse{
			Success: false,
			Error: &core.ErrorResponse{
				Error:   "invalid square",
				Code:    core.ErrInvalidSquareCode,
				Details: err.Error(),
			},
		}
	default:
		return p.errorResponse(err.Error(), core.ErrInternalError)
	}
}

func (p *Processor) errorResponse(message string, code string) ProcessorResponse {
	return ProcessorResponse{
		Success: false,
		Error: &core.ErrorResponse{
			Error: message,
			Code:  code,
		},
	}
}

// BuildGameResponse converts a snapshot to its wire form
func BuildGameResponse(gameID string, snap game.Snapshot) core.GameResponse {
	resp := core.GameResponse{
		GameID:    gameID,
		Phase:     snap.Phase.String(),
		Turn:      snap.Turn.String(),
		Pieces:    make([]core.PieceInfo, 0, len(snap.Pieces)),
		Placement: snap.Placement,
		Captured: core.CapturedPieces{
			White: core.PieceTypeNames(snap.WhiteCaptured),
			Black: core.PieceTypeNames(snap.BlackCaptured),
		},
		Winner:  snap.Winner.String(),
		Moves:   snap.Moves,
		Version: snap.Version,
	}
	if snap.Selected != nil {
		s := core.NewSquareInfo(*snap.Selected)
		resp.Selected = &s
	}
	for _, pc := range snap.Pieces {
		resp.Pieces = append(resp.Pieces, core.NewPieceInfo(pc))
	}
	return resp
}

// BuildPickResponse converts a pick result to its wire form
func BuildPickResponse(gameID string, res game.PickResult, snap game.Snapshot) core.PickResponse {
	resp := core.PickResponse{
		Outcome:  res.Outcome.String(),
		GameOver: res.GameOver,
		Winner:   res.Winner.String(),
		Game:     BuildGameResponse(gameID, snap),
	}

	switch res.Outcome {
	case game.PickSelected:
		from := core.NewSquareInfo(res.From)
		resp.From = &from
		resp.Targets = make([]core.SquareInfo, 0, len(res.Targets))
		for _, t := range res.Targets {
			resp.Targets = append(resp.Targets, core.NewSquareInfo(t))
		}
	case game.PickMoved, game.PickRejected:
		from, to := core.NewSquareInfo(res.From), core.NewSquareInfo(res.To)
		resp.From, resp.To = &from, &to
	}

	if res.Captured != nil {
		c := core.NewPieceInfo(*res.Captured)
		resp.Captured = &c
	}
	if res.Final != nil {
		final := BuildGameResponse(gameID, *res.Final)
		resp.Final = &final
	}
	return resp
}
