package matchmigrations

import (
	"context"
	"fmt"

	matchdb "github.com/ahalia-sports/tournament-admin/app/modules/match/infrastructure/repositories"
	"github.com/uptrace/bun"
)

func init() {
	Migrations.MustRegister(func(ctx context.Context, db *bun.DB) error {
		fmt.Println("Creating matches table...")

		return db.RunInTx(ctx, nil, func(ctx context.Context, tx bun.Tx) error {
			if _, err := tx.NewCreateTable().Model((*matchdb.Match)(nil)).
				IfNotExists().
				Exec(ctx); err != nil {
				return fmt.Errorf("failed to create matches table: %w", err)
			}

			if _, err := tx.ExecContext(ctx, `
				CREATE UNIQUE INDEX IF NOT EXISTS idx_matches_tournament_seq ON matches(tournament_id, seq);
				CREATE INDEX IF NOT EXISTS idx_matches_tournament_status ON matches(tournament_id, status);
			`); err != nil {
				return fmt.Errorf("failed to create matches indexes: %w", err)
			}

			if _, err := tx.ExecContext(ctx, `
				ALTER TABLE matches DROP CONSTRAINT IF EXISTS chk_matches_distinct_teams;
				ALTER TABLE matches ADD CONSTRAINT chk_matches_distinct_teams CHECK (team_a <> team_b);
				ALTER TABLE matches DROP CONSTRAINT IF EXISTS chk_matches_scores;
				ALTER TABLE matches ADD CONSTRAINT chk_matches_scores CHECK (
					(score_a IS NULL OR score_a >= 0) AND (score_b IS NULL OR score_b >= 0)
				);
			`); err != nil {
				return fmt.Errorf("failed to add matches constraints: %w", err)
			}

			fmt.Println("Matches table created successfully!")
			return nil
		})
	}, func(ctx context.Context, db *bun.DB) error {
		fmt.Println("Dropping matches table...")

		_, err := db.NewDropTable().Model((*matchdb.Match)(nil)).IfExists().Cascade().Exec(ctx)
		if err != nil {
			return fmt.Errorf("failed to drop matches table: %w", err)
		}

		fmt.Println("Matches table dropped successfully!")
		return nil
	})
}
