package rest

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog/log"

	"livepoker.com/server/game"
	"livepoker.com/server/internal/playerkeys"
)

var restLogger = log.With().Str("logger_name", "rest::rest").Logger()

var tableManager *game.Manager
var playerKeys *playerkeys.Cache

//
// APP error definition
//
type appError struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

func RunRestServer(manager *game.Manager, keys *playerkeys.Cache, addr string) error {
	tableManager = manager
	playerKeys = keys
	r := gin.Default()

	r.POST("/api/game/join", joinGame)
	r.GET("/api/game/status", gameStatus)
	r.POST("/api/game/action", gameAction)
	r.POST("/api/game/bots/add", addBots)
	r.POST("/api/game/bots/remove", removeBots)
	r.GET("/api/game/hand", playerHand)
	r.POST("/api/register-key", registerKey)
	r.GET("/api/status", serverStatus)
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	return r.Run(addr)
}

// statusForError maps an engine rejection to a transport status code:
// malformed input and illegal transitions are 400, not-yet-available
// data is 409 or 404.
func statusForError(err error) int {
	switch err.(type) {
	case game.GameStartedError, game.NotReadyError:
		return http.StatusConflict
	case game.HandNotReadyError:
		return http.StatusNotFound
	case game.IllegalActionError:
		return http.StatusBadRequest
	}
	switch err {
	case game.ErrMissingGameID, game.ErrMissingPlayerID:
		return http.StatusBadRequest
	}
	return http.StatusInternalServerError
}

func rejectWithError(c *gin.Context, err error) {
	c.IndentedJSON(statusForError(err), appError{
		Code:    statusForError(err),
		Message: err.Error(),
	})
}

func joinGame(c *gin.Context) {
	type Payload struct {
		GameID     string `json:"gameId"`
		PlayerHash string `json:"playerHash"`
	}
	var payload Payload
	if err := c.BindJSON(&payload); err != nil {
		restLogger.Error().Msgf("Unable to parse join payload. Error: %v", err)
		c.IndentedJSON(http.StatusBadRequest, appError{Code: http.StatusBadRequest, Message: err.Error()})
		return
	}
	view, err := tableManager.Join(payload.GameID, payload.PlayerHash)
	if err != nil {
		rejectWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"game": view})
}

func gameStatus(c *gin.Context) {
	view, err := tableManager.Status(c.Query("gameId"))
	if err != nil {
		rejectWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"game": view})
}

func gameAction(c *gin.Context) {
	type Payload struct {
		GameID     string `json:"gameId"`
		PlayerHash string `json:"playerHash"`
		Action     string `json:"action"`
		Amount     int    `json:"amount"`
	}
	var payload Payload
	if err := c.BindJSON(&payload); err != nil {
		restLogger.Error().Msgf("Unable to parse action payload. Error: %v", err)
		c.IndentedJSON(http.StatusBadRequest, appError{Code: http.StatusBadRequest, Message: err.Error()})
		return
	}
	action, err := game.ParseAction(payload.Action, payload.Amount)
	if err != nil {
		rejectWithError(c, err)
		return
	}
	view, err := tableManager.Act(payload.GameID, payload.PlayerHash, action)
	if err != nil {
		rejectWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"game": view})
}

func addBots(c *gin.Context) {
	type Payload struct {
		GameID string `json:"gameId"`
		Count  int    `json:"count"`
	}
	var payload Payload
	if err := c.BindJSON(&payload); err != nil {
		c.IndentedJSON(http.StatusBadRequest, appError{Code: http.StatusBadRequest, Message: err.Error()})
		return
	}
	view, err := tableManager.AddBots(payload.GameID, payload.Count)
	if err != nil {
		rejectWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"game": view})
}

func removeBots(c *gin.Context) {
	type Payload struct {
		GameID string `json:"gameId"`
		Count  int    `json:"count"`
	}
	var payload Payload
	if err := c.BindJSON(&payload); err != nil {
		c.IndentedJSON(http.StatusBadRequest, appError{Code: http.StatusBadRequest, Message: err.Error()})
		return
	}
	view, err := tableManager.RemoveBots(payload.GameID, payload.Count)
	if err != nil {
		rejectWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"game": view})
}

func playerHand(c *gin.Context) {
	bundle, err := tableManager.Hand(c.Query("gameId"), c.Query("playerHash"))
	if err != nil {
		rejectWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, bundle)
}

func registerKey(c *gin.Context) {
	type Payload struct {
		PlayerHash string `json:"playerHash"`
		PlayerKey  string `json:"playerKey"`
	}
	var payload Payload
	if err := c.BindJSON(&payload); err != nil {
		c.IndentedJSON(http.StatusBadRequest, appError{Code: http.StatusBadRequest, Message: err.Error()})
		return
	}
	if err := playerKeys.Register(payload.PlayerHash, payload.PlayerKey); err != nil {
		c.IndentedJSON(http.StatusBadRequest, appError{Code: http.StatusBadRequest, Message: err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"ok": true})
}

func serverStatus(c *gin.Context) {
	type tableSummary struct {
		Phase      string `json:"phase"`
		HandNumber int    `json:"handNumber"`
		NumPlayers int    `json:"numPlayers"`
		Pot        int    `json:"pot"`
	}
	ids := tableManager.TableIDs()
	summaries := make(map[string]tableSummary, len(ids))
	for _, id := range ids {
		view, err := tableManager.Status(id)
		if err != nil {
			continue
		}
		summaries[id] = tableSummary{
			Phase:      view.Phase,
			HandNumber: view.HandNumber,
			NumPlayers: len(view.Players),
			Pot:        view.Pot,
		}
	}
	c.JSON(http.StatusOK, gin.H{
		"games":  ids,
		"tables": summaries,
	})
}
