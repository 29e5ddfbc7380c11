package leagues

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/jonboulle/clockwork"
	"github.com/mfmanca2000/easyasta/internal/auction"
	"github.com/mfmanca2000/easyasta/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// validation failures must reject before any transaction is opened, so a nil
// database is safe here.
func validationApp() *App {
	return NewApp(nil, NewRepository, func(db auction.DBTX) auction.Store { return auction.NewRepository(db) }, clockwork.NewFakeClock())
}

func TestCreateLeagueRejectsBlankName(t *testing.T) {
	_, err := validationApp().CreateLeague(context.Background(), CreateLeagueRequest{
		Name:           "   ",
		AdminUserID:    uuid.New(),
		InitialCredits: 500,
	})
	require.ErrorIs(t, err, ErrInvalidLeagueName)
}

func TestCreateLeagueRejectsNonPositiveCredits(t *testing.T) {
	_, err := validationApp().CreateLeague(context.Background(), CreateLeagueRequest{
		Name:        "Serie A Keepers",
		AdminUserID: uuid.New(),
	})
	require.ErrorIs(t, err, ErrInvalidCredits)
}

func TestCreateLeagueRejectsUnknownBotTier(t *testing.T) {
	_, err := validationApp().CreateLeague(context.Background(), CreateLeagueRequest{
		Name:           "Serie A Keepers",
		AdminUserID:    uuid.New(),
		InitialCredits: 500,
		BotTier:        models.BotTier("GENIUS"),
	})
	require.Error(t, err)
	assert.Equal(t, auction.KindPolicyViolation, auction.KindOf(err))
}

func TestRegisterTeamRejectsBlankName(t *testing.T) {
	_, err := validationApp().RegisterTeam(context.Background(), RegisterTeamRequest{
		LeagueID: uuid.New(),
		UserID:   uuid.New(),
		Name:     "",
	})
	require.Error(t, err)
	assert.Equal(t, auction.KindPolicyViolation, auction.KindOf(err))
}

func TestImportPlayersRejectsEmptyList(t *testing.T) {
	_, err := validationApp().ImportPlayers(context.Background(), ImportPlayersRequest{
		LeagueID: uuid.New(),
	})
	require.ErrorIs(t, err, ErrEmptyImport)
}

func TestImportPlayersRejectsUnknownPosition(t *testing.T) {
	_, err := validationApp().ImportPlayers(context.Background(), ImportPlayersRequest{
		LeagueID: uuid.New(),
		Players: []PlayerEntry{
			{Name: "Sweeper", Position: models.Position("LIBERO"), Price: 10},
		},
	})
	require.Error(t, err)
	assert.Equal(t, auction.KindPolicyViolation, auction.KindOf(err))
}

func TestImportPlayersRejectsNonPositivePrice(t *testing.T) {
	_, err := validationApp().ImportPlayers(context.Background(), ImportPlayersRequest{
		LeagueID: uuid.New(),
		Players: []PlayerEntry{
			{Name: "Free Agent", Position: models.PositionForward, Price: 0},
		},
	})
	require.Error(t, err)
	assert.Equal(t, auction.KindPolicyViolation, auction.KindOf(err))
}
