package teammigrations

import (
	"context"
	"fmt"

	teamdb "github.com/ahalia-sports/tournament-admin/app/modules/team/infrastructure/repositories"
	"github.com/uptrace/bun"
)

func init() {
	Migrations.MustRegister(func(ctx context.Context, db *bun.DB) error {
		fmt.Println("Creating players table...")

		return db.RunInTx(ctx, nil, func(ctx context.Context, tx bun.Tx) error {
			if _, err := tx.NewCreateTable().Model((*teamdb.Player)(nil)).
				IfNotExists().
				ForeignKey(`("team_id") REFERENCES "teams" ("id") ON DELETE CASCADE`).
				Exec(ctx); err != nil {
				return fmt.Errorf("failed to create players table: %w", err)
			}

			if _, err := tx.ExecContext(ctx, `
				CREATE INDEX IF NOT EXISTS idx_players_tournament_position ON players(tournament_id, position);
				CREATE INDEX IF NOT EXISTS idx_players_team ON players(team_id);
				ALTER TABLE players DROP CONSTRAINT IF EXISTS chk_players_position;
				ALTER TABLE players ADD CONSTRAINT chk_players_position CHECK (position IN ('forward', 'midfielder', 'defender', 'goalkeeper'));
				ALTER TABLE players DROP CONSTRAINT IF EXISTS chk_players_stats;
				ALTER TABLE players ADD CONSTRAINT chk_players_stats CHECK (goals >= 0 AND assists >= 0 AND yellow_cards >= 0 AND red_cards >= 0);
			`); err != nil {
				return fmt.Errorf("failed to create players indexes: %w", err)
			}

			fmt.Println("Players table created successfully!")
			return nil
		})
	}, func(ctx context.Context, db *bun.DB) error {
		fmt.Println("Dropping players table...")

		_, err := db.NewDropTable().Model((*teamdb.Player)(nil)).IfExists().Cascade().Exec(ctx)
		if err != nil {
			return fmt.Errorf("failed to drop players table: %w", err)
		}

		fmt.Println("Players table dropped successfully!")
		return nil
	})
}
