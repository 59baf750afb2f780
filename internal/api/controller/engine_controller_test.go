package controller

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"ctchen222/tictactoe-engine/internal/bot"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type envelope struct {
	Success bool            `json:"success"`
	Code    int             `json:"code"`
	Extras  json.RawMessage `json:"extras"`
}

func newTestRouter(t *testing.T) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)

	calc, err := bot.NewMoveCalculator(bot.Hard, 5*time.Second)
	require.NoError(t, err)

	r := gin.New()
	NewEngineController(calc).RegisterRoutes(r.Group("/api/v1/engine"))
	return r
}

func post(t *testing.T, r http.Handler, path, body string) (*httptest.ResponseRecorder, envelope) {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, path, bytes.NewBufferString(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()

	r.ServeHTTP(w, req)

	var env envelope
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &env), w.Body.String())
	return w, env
}

func TestEngineController_State(t *testing.T) {
	r := newTestRouter(t)

	t.Run("Game in progress", func(t *testing.T) {
		w, env := post(t, r, "/api/v1/engine/state", `{"board":[["X","",""],["","O",""],["","",""]]}`)

		require.Equal(t, http.StatusOK, w.Code)
		assert.True(t, env.Success)

		var state struct {
			Next       string           `json:"next"`
			LegalMoves []map[string]int `json:"legalMoves"`
			Terminal   bool             `json:"terminal"`
			Utility    *int             `json:"utility"`
		}
		require.NoError(t, json.Unmarshal(env.Extras, &state))
		assert.Equal(t, "X", state.Next)
		assert.Len(t, state.LegalMoves, 7)
		assert.Equal(t, map[string]int{"row": 0, "col": 1}, state.LegalMoves[0])
		assert.False(t, state.Terminal)
		assert.Nil(t, state.Utility)
	})

	t.Run("Full board without a winner", func(t *testing.T) {
		w, env := post(t, r, "/api/v1/engine/state", `{"board":[["X","O","X"],["X","O","O"],["O","X","X"]]}`)

		require.Equal(t, http.StatusOK, w.Code)
		assert.JSONEq(t, `{"board":[["X","O","X"],["X","O","O"],["O","X","X"]],"legalMoves":[],"terminal":true,"utility":0}`, string(env.Extras))
	})

	t.Run("Board out of turn order", func(t *testing.T) {
		w, env := post(t, r, "/api/v1/engine/state", `{"board":[["O","",""],["","",""],["","",""]]}`)

		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.False(t, env.Success)
	})

	t.Run("Malformed JSON", func(t *testing.T) {
		w, _ := post(t, r, "/api/v1/engine/state", `{"board":`)

		assert.Equal(t, http.StatusBadRequest, w.Code)
	})
}

func TestEngineController_Apply(t *testing.T) {
	r := newTestRouter(t)

	t.Run("Places the mark", func(t *testing.T) {
		w, env := post(t, r, "/api/v1/engine/apply", `{"board":[["","",""],["","",""],["","",""]],"position":[0,0]}`)

		require.Equal(t, http.StatusOK, w.Code)
		var state struct {
			Board [3][3]string `json:"board"`
			Next  string       `json:"next"`
		}
		require.NoError(t, json.Unmarshal(env.Extras, &state))
		assert.Equal(t, [3][3]string{{"X", "", ""}, {"", "", ""}, {"", "", ""}}, state.Board)
		assert.Equal(t, "O", state.Next)
	})

	t.Run("Occupied cell", func(t *testing.T) {
		w, env := post(t, r, "/api/v1/engine/apply", `{"board":[["X","",""],["","",""],["","",""]],"position":[0,0]}`)

		assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
		assert.Contains(t, string(env.Extras), "cell already occupied")
	})

	t.Run("Out of range", func(t *testing.T) {
		w, env := post(t, r, "/api/v1/engine/apply", `{"board":[["","",""],["","",""],["","",""]],"position":[3,0]}`)

		assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
		assert.Contains(t, string(env.Extras), "cell out of range")
	})

	t.Run("Missing position", func(t *testing.T) {
		w, env := post(t, r, "/api/v1/engine/apply", `{"board":[["","",""],["","",""],["","",""]]}`)

		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Contains(t, string(env.Extras), "position is required")
	})
}

func TestEngineController_BestMove(t *testing.T) {
	r := newTestRouter(t)

	t.Run("Winning move", func(t *testing.T) {
		w, env := post(t, r, "/api/v1/engine/best-move", `{"board":[["X","X",""],["O","O",""],["","",""]]}`)

		require.Equal(t, http.StatusOK, w.Code)
		assert.JSONEq(t, `{"value":1,"move":{"row":0,"col":2}}`, string(env.Extras))
	})

	t.Run("Terminal board has no move", func(t *testing.T) {
		w, env := post(t, r, "/api/v1/engine/best-move", `{"board":[["X","X","X"],["O","O",""],["","",""]]}`)

		require.Equal(t, http.StatusOK, w.Code)
		assert.JSONEq(t, `{"value":1,"move":null}`, string(env.Extras))
	})
}

func TestEngineController_BotMove(t *testing.T) {
	r := newTestRouter(t)

	t.Run("Medium blocks", func(t *testing.T) {
		w, env := post(t, r, "/api/v1/engine/bot-move", `{"board":[["X","X",""],["","O",""],["","",""]],"difficulty":"medium"}`)

		require.Equal(t, http.StatusOK, w.Code)
		assert.JSONEq(t, `{"move":{"row":0,"col":2}}`, string(env.Extras))
	})

	t.Run("Unknown difficulty", func(t *testing.T) {
		w, _ := post(t, r, "/api/v1/engine/bot-move", `{"board":[["","",""],["","",""],["","",""]],"difficulty":"godlike"}`)

		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("Finished game", func(t *testing.T) {
		w, _ := post(t, r, "/api/v1/engine/bot-move", `{"board":[["X","X","X"],["O","O",""],["","",""]]}`)

		assert.Equal(t, http.StatusConflict, w.Code)
	})
}
