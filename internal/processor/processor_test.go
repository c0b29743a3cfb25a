package processor

import (
	"testing"
	"time"

	"pickchess/internal/core"
	"pickchess/internal/service"
)

func intp(n int) *int { return &n }

func newProc(t *testing.T) *Processor {
	t.Helper()
	svc := service.New()
	t.Cleanup(func() { svc.Shutdown(time.Second) })
	return New(svc)
}

func create(t *testing.T, p *Processor, start bool) core.GameResponse {
	t.Helper()
	resp := p.Execute(NewCreateGameCommand(core.CreateGameRequest{Start: start}))
	if !resp.Success {
		t.Fatalf("create failed: %+v", resp.Error)
	}
	return resp.Data.(core.GameResponse)
}

func TestCreateGame(t *testing.T) {
	p := newProc(t)

	g := create(t, p, true)
	if g.GameID == "" || g.Phase != "active" || g.Turn != "w" || len(g.Pieces) != 32 {
		t.Errorf("started game = %+v", g)
	}

	idle := create(t, p, false)
	if idle.Phase != "not_started" || len(idle.Pieces) != 0 {
		t.Errorf("idle game = %+v", idle)
	}
	if idle.Captured.White == nil || idle.Captured.Black == nil {
		t.Error("ledgers should encode as empty arrays, not null")
	}
}

func TestPickFlow(t *testing.T) {
	p := newProc(t)
	g := create(t, p, true)

	resp := p.Execute(NewPickCommand(g.GameID, core.PickRequest{Row: intp(0), Col: intp(6)}))
	if !resp.Success {
		t.Fatalf("pick failed: %+v", resp.Error)
	}
	sel := resp.Data.(core.PickResponse)
	if sel.Outcome != "selected" || sel.From == nil || sel.From.Name != "g1" {
		t.Fatalf("selection = %+v", sel)
	}
	if len(sel.Targets) != 2 || sel.Targets[0].Name != "f3" || sel.Targets[1].Name != "h3" {
		t.Errorf("targets = %+v", sel.Targets)
	}
	if sel.Game.Selected == nil || sel.Game.Selected.Name != "g1" {
		t.Errorf("game selection = %+v", sel.Game.Selected)
	}

	resp = p.Execute(NewPickCommand(g.GameID, core.PickRequest{Row: intp(2), Col: intp(5)}))
	moved := resp.Data.(core.PickResponse)
	if moved.Outcome != "moved" || moved.To.Name != "f3" || moved.Game.Turn != "b" {
		t.Errorf("move = %+v", moved)
	}
}

func TestErrors(t *testing.T) {
	p := newProc(t)

	resp := p.Execute(NewGetGameCommand("nope"))
	if resp.Success || resp.Error.Code != core.ErrGameNotFound {
		t.Errorf("get missing = %+v", resp)
	}

	g := create(t, p, true)
	resp = p.Execute(NewPickCommand(g.GameID, core.PickRequest{Row: intp(9), Col: intp(0)}))
	if resp.Success || resp.Error.Code != core.ErrInvalidSquareCode {
		t.Errorf("off-board pick = %+v", resp)
	}

	resp = p.Execute(NewPickCommand(g.GameID, core.PickRequest{Row: intp(1)}))
	if resp.Success || resp.Error.Code != core.ErrInvalidRequest {
		t.Errorf("pick without col = %+v", resp)
	}

	resp = p.Execute(Command{Type: CommandType(99)})
	if resp.Success || resp.Error.Code != core.ErrInvalidRequest {
		t.Errorf("unknown command = %+v", resp)
	}
}

func TestLifecycleCommands(t *testing.T) {
	p := newProc(t)
	g := create(t, p, false)

	resp := p.Execute(NewStartGameCommand(g.GameID))
	if got := resp.Data.(core.GameResponse); got.Phase != "active" {
		t.Errorf("after start phase = %s", got.Phase)
	}

	resp = p.Execute(NewGetBoardCommand(g.GameID))
	if b := resp.Data.(core.BoardResponse); b.Placement != "rnbqkbnr/pppppppp/8/8/8/8/PPPPPPPP/RNBQKBNR" {
		t.Errorf("placement = %q", b.Placement)
	}

	resp = p.Execute(NewEndGameCommand(g.GameID))
	if got := resp.Data.(core.GameResponse); got.Phase != "not_started" || len(got.Pieces) != 0 {
		t.Errorf("after end = %+v", got)
	}

	if resp := p.Execute(NewDeleteGameCommand(g.GameID)); !resp.Success {
		t.Errorf("delete = %+v", resp)
	}
	if resp := p.Execute(NewDeleteGameCommand(g.GameID)); resp.Success {
		t.Error("second delete should fail")
	}
}
