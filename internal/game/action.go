package game

import (
	"encoding/json"
	"fmt"
	"time"
)

// Interaction kinds. They tell the client which picker to render and how
// to shape the response payload.
const (
	InteractionPass                = "pass"
	InteractionMoveCardsToDiscard  = "moveCardsToDiscard"
	InteractionMoveCardOnBoard     = "moveCardOnBoard"
	InteractionPutCardOnBoard      = "putCardOnBoard"
	InteractionSelectCoupleOnBoard = "selectCoupleOnBoard"
)

// Interaction describes what the client has to answer for a pending
// action. Params and Response hold kind-specific structs.
type Interaction struct {
	Kind     string `json:"type"`
	Params   any    `json:"params,omitempty"`
	Response any    `json:"response,omitempty"`
}

// PassResponse is the empty answer of a pass interaction.
type PassResponse struct{}

// MoveCardsToDiscardParams bounds a discard selection.
type MoveCardsToDiscardParams struct {
	HandIDs []string `json:"handIndexes"`
	Min    int      `json:"min"`
	Max    int      `json:"max"`
}

// MoveCardsToDiscardResponse lists the chosen hand card IDs.
type MoveCardsToDiscardResponse struct {
	HandIDs []string `json:"handIndexes"`
}

// BoardTarget pairs a movable card with its legal destinations.
type BoardTarget struct {
	Card    string   `json:"card"`
	Squares []string `json:"boardCoords"`
}

// MoveCardOnBoardParams lists the movable cards and their destinations.
type MoveCardOnBoardParams struct {
	Possibilities []BoardTarget `json:"possibilities"`
}

// MoveCardOnBoardResponse is one chosen move.
type MoveCardOnBoardResponse struct {
	Card   string `json:"card"`
	Square string `json:"boardCoords"`
}

// PutCardOnBoardParams lists the playable hand cards and the free squares.
type PutCardOnBoardParams struct {
	HandIDs []string `json:"handIndexes"`
	Squares []string `json:"boardCoords"`
}

// PutCardOnBoardResponse is one chosen placement.
type PutCardOnBoardResponse struct {
	HandID string `json:"handIndex"`
	Square string `json:"boardCoords"`
}

// CouplePossibility pairs a source square with its attackable squares.
type CouplePossibility struct {
	From string   `json:"boardCoordsFrom"`
	To   []string `json:"boardCoordsTo"`
}

// SelectCoupleOnBoardParams lists the legal confrontation couples.
type SelectCoupleOnBoardParams struct {
	Possibilities []CouplePossibility `json:"possibilities"`
}

// SelectCoupleOnBoardResponse is one chosen couple.
type SelectCoupleOnBoardResponse struct {
	From string `json:"boardCoordsFrom"`
	To   string `json:"boardCoordsTo"`
}

// DecodeResponse parses a raw client payload into the response struct of
// the given interaction kind.
func DecodeResponse(kind string, raw json.RawMessage) (any, error) {
	var (
		out any
		err error
	)
	switch kind {
	case InteractionPass:
		out = PassResponse{}
	case InteractionMoveCardsToDiscard:
		var r MoveCardsToDiscardResponse
		err = json.Unmarshal(raw, &r)
		out = r
	case InteractionMoveCardOnBoard:
		var r MoveCardOnBoardResponse
		err = json.Unmarshal(raw, &r)
		out = r
	case InteractionPutCardOnBoard:
		var r PutCardOnBoardResponse
		err = json.Unmarshal(raw, &r)
		out = r
	case InteractionSelectCoupleOnBoard:
		var r SelectCoupleOnBoardResponse
		err = json.Unmarshal(raw, &r)
		out = r
	default:
		return nil, fmt.Errorf("unknown interaction kind %q", kind)
	}
	if err != nil {
		return nil, fmt.Errorf("decode %s response: %w", kind, err)
	}
	return out, nil
}

// Action is a pending action awaiting a response from a user. The worker
// named by Type implements its behavior.
type Action struct {
	Type        string          `json:"type"`
	User        int             `json:"user"`
	Description LocalizedString `json:"description"`
	Priority    int             `json:"priority"`
	Interaction Interaction     `json:"interaction"`
	CreatedAt   time.Time       `json:"createdAt"`
	ExpiresAt   *time.Time      `json:"expiresAt,omitempty"`
}

// PassedAction is an archived action with the response that resolved it.
// Expired actions are archived with a nil response.
type PassedAction struct {
	Type        string          `json:"type"`
	User        int             `json:"user"`
	Description LocalizedString `json:"description"`
	Priority    int             `json:"priority"`
	Response    any             `json:"response,omitempty"`
	CreatedAt   time.Time       `json:"createdAt"`
	ExpiresAt   *time.Time      `json:"expiresAt,omitempty"`
	PassedAt    time.Time       `json:"passedAt"`
}
