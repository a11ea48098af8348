package game

import "livepoker.com/server/util"

// runBotTurns lets consecutive bot seats play themselves: call when an
// amount is owed, check otherwise. The iteration cap is a guard against
// a turn-advancement bug looping forever, not an expected limit.
// Caller must hold the table lock.
func (t *Table) runBotTurns() {
	for safety := 0; safety < t.settings.BotTurnCap; safety++ {
		if t.currentTurnIndex < 0 || t.currentTurnIndex >= len(t.players) {
			break
		}
		current := t.players[t.currentTurnIndex]
		if !current.IsBot {
			break
		}
		if !t.isPending(current.Hash) {
			break
		}
		required := maxInt(t.currentBet-t.roundBets[current.Hash], 0)
		action := Action{Type: ActionCheck}
		if required > 0 {
			action = Action{Type: ActionCall, Amount: required}
		}
		if err := t.handleAction(current.Hash, action); err != nil {
			// Nothing further to automate this tick.
			break
		}
		util.Metrics.BotActionApplied()
		if t.phase == PhaseShowdown {
			break
		}
	}
}
