package types

// PlayerAccount is the persisted per-player record. Records are created
// lazily on first interaction and never deleted. All timestamps are UTC unix
// seconds; zero means "never".
type PlayerAccount struct {
	// Rolling daily turn bucket.
	LastResetTime    uint64 `json:"lastResetTime"`
	FreeTurnsUsed    uint8  `json:"freeTurnsUsed"`
	ExtraGoes        uint32 `json:"extraGoes"`
	WeeklyPassExpiry uint64 `json:"weeklyPassExpiry"`

	// Identity verification attested upstream.
	VerificationTier VerificationTier `json:"verificationTier"`
	Verified         bool             `json:"verified"`

	// Lifetime aggregates.
	TotalGamesPlayed  uint64 `json:"totalGamesPlayed"`
	TotalPointsEarned uint64 `json:"totalPointsEarned"`
	HighScore         uint64 `json:"highScore"`

	// Daily claim ledger.
	LastDailyClaim   uint64 `json:"lastDailyClaim"`
	DailyClaimStreak uint32 `json:"dailyClaimStreak"`

	// One-shot legacy token migration.
	HasMigratedTokens bool `json:"hasMigratedTokens"`

	// Active session. A non-zero ActiveGameID means the player is mid-game
	// awaiting an attested score.
	ActiveGameID    uint64   `json:"activeGameId"`
	ActiveGameMode  GameMode `json:"activeGameMode"`
	ActiveGameStart uint64   `json:"activeGameStart"`
}

// Clone returns a deep copy so staged mutations never leak into persisted
// state before the enclosing operation commits.
func (p *PlayerAccount) Clone() *PlayerAccount {
	if p == nil {
		return &PlayerAccount{}
	}
	clone := *p
	return &clone
}
