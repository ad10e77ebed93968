package core

import (
	"fmt"
	"math/big"

	"taprush/core/events"
	"taprush/core/types"
	"taprush/native/common"
	"taprush/native/leaderboard"
	"taprush/native/turns"
	"taprush/native/verify"
)

// StartReceipt reports the opened session and the turns left afterwards.
type StartReceipt struct {
	GameID uint64
	Mode   types.GameMode
	Turns  turns.Status
}

// ScoreReceipt reports the settled session.
type ScoreReceipt struct {
	GameID    uint64
	Mode      types.GameMode
	Reward    *big.Int
	Rank      int
	Ranked    bool
	HighScore bool
}

// StartGame consumes a turn and opens a play session for the player. A start
// while a prior session is still unsettled abandons that session; the turn it
// consumed stays spent.
func (n *Node) StartGame(player types.Address, mode types.GameMode) (StartReceipt, error) {
	if err := n.enter(); err != nil {
		return StartReceipt{}, err
	}
	n.mu.Lock()
	defer n.mu.Unlock()

	if err := common.Guard(n, moduleGame); err != nil {
		return StartReceipt{}, err
	}
	if !mode.Valid() {
		return StartReceipt{}, fmt.Errorf("%w: %d", types.ErrInvalidGameMode, uint8(mode))
	}
	acct, err := n.loadPlayer(player)
	if err != nil {
		return StartReceipt{}, err
	}
	if !verify.Eligible(acct) {
		return StartReceipt{}, verify.ErrVerificationRequired
	}

	now := n.now()
	if err := turns.Consume(acct, now); err != nil {
		return StartReceipt{}, err
	}

	lastID, err := n.state.LastGameID()
	if err != nil {
		return StartReceipt{}, err
	}
	gameID := lastID + 1
	acct.ActiveGameID = gameID
	acct.ActiveGameMode = mode
	acct.ActiveGameStart = uint64(now.Unix())

	if err := n.state.SetLastGameID(gameID); err != nil {
		return StartReceipt{}, err
	}
	if err := n.state.PutPlayer(player, acct); err != nil {
		return StartReceipt{}, err
	}

	n.emit(events.GameStarted{Player: player, GameID: gameID, Mode: mode})
	return StartReceipt{GameID: gameID, Mode: mode, Turns: turns.Available(acct, now)}, nil
}

// SubmitScore settles the player's open session with a score attested by an
// authorized submitter. The raw score is never accepted from the player. Any
// guard failure aborts the whole transition with no partial mutation.
func (n *Node) SubmitScore(submitter, player types.Address, score uint64, round uint64) (ScoreReceipt, error) {
	if err := n.enter(); err != nil {
		return ScoreReceipt{}, err
	}
	n.mu.Lock()
	defer n.mu.Unlock()

	if err := common.Guard(n, moduleGame); err != nil {
		return ScoreReceipt{}, err
	}
	if !n.submitters[submitter] && submitter != n.owner {
		return ScoreReceipt{}, fmt.Errorf("%w: %s", ErrUnauthorizedSubmitter, submitter.Hex())
	}
	if score == 0 {
		return ScoreReceipt{}, ErrInvalidScore
	}
	if round == 0 || round > MaxRound {
		return ScoreReceipt{}, fmt.Errorf("%w: round must lie in [1, %d], got %d", ErrInvalidRound, MaxRound, round)
	}

	acct, err := n.loadPlayer(player)
	if err != nil {
		return ScoreReceipt{}, err
	}
	if acct.ActiveGameID == 0 {
		return ScoreReceipt{}, ErrNoActiveGame
	}
	mode := acct.ActiveGameMode
	gameID := acct.ActiveGameID

	if err := n.rewardCfg.CheckPlausibility(mode, score, round); err != nil {
		return ScoreReceipt{}, err
	}
	multiplier, err := verify.MultiplierFor(acct, n.multipliers)
	if err != nil {
		return ScoreReceipt{}, err
	}
	reward := n.rewardCfg.Amount(score, round, multiplier)

	board, err := n.state.Board(mode)
	if err != nil {
		return ScoreReceipt{}, err
	}
	now := n.now()
	result, err := leaderboard.Submit(board, types.LeaderboardEntry{
		Player:    player,
		Score:     score,
		Timestamp: uint64(now.Unix()),
		Round:     uint32(round),
		Mode:      mode,
		GameID:    gameID,
	})
	if err != nil {
		return ScoreReceipt{}, err
	}

	highScore := score > acct.HighScore
	if highScore {
		acct.HighScore = score
	}
	acct.TotalGamesPlayed++
	acct.TotalPointsEarned += score
	acct.ActiveGameID = 0
	acct.ActiveGameMode = 0
	acct.ActiveGameStart = 0

	// External mint happens after every guard but before any persist, so a
	// rejected mint leaves no trace of the submission.
	total, err := n.mintChecked(player, reward)
	if err != nil {
		return ScoreReceipt{}, err
	}

	totalGames, err := n.state.TotalGames()
	if err != nil {
		return ScoreReceipt{}, err
	}
	if err := n.state.SetTotalGames(totalGames + 1); err != nil {
		return ScoreReceipt{}, err
	}
	if err := n.state.PutBoard(mode, result.Entries); err != nil {
		return ScoreReceipt{}, err
	}
	if err := n.state.PutPlayer(player, acct); err != nil {
		return ScoreReceipt{}, err
	}

	n.emit(events.GameScored{
		Player:    player,
		GameID:    gameID,
		Mode:      mode,
		Score:     score,
		Round:     uint32(round),
		Reward:    reward,
		HighScore: highScore,
	})
	if result.Ranked {
		n.emit(events.RankChanged{Player: player, Mode: mode, Rank: result.Rank, Score: score, GameID: gameID})
	}
	n.emit(events.TokenMinted{To: player, Amount: reward, Total: total, Reason: events.MintReasonGame})

	return ScoreReceipt{
		GameID:    gameID,
		Mode:      mode,
		Reward:    reward,
		Rank:      result.Rank,
		Ranked:    result.Ranked,
		HighScore: highScore,
	}, nil
}
