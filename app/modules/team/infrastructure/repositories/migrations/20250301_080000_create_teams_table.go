package teammigrations

import (
	"context"
	"fmt"

	teamdb "github.com/ahalia-sports/tournament-admin/app/modules/team/infrastructure/repositories"
	"github.com/uptrace/bun"
)

func init() {
	Migrations.MustRegister(func(ctx context.Context, db *bun.DB) error {
		fmt.Println("Creating teams table...")

		return db.RunInTx(ctx, nil, func(ctx context.Context, tx bun.Tx) error {
			if _, err := tx.NewCreateTable().Model((*teamdb.Team)(nil)).
				IfNotExists().
				Exec(ctx); err != nil {
				return fmt.Errorf("failed to create teams table: %w", err)
			}

			if _, err := tx.ExecContext(ctx, `
				CREATE UNIQUE INDEX IF NOT EXISTS idx_teams_tournament_name ON teams(tournament_id, lower(name));
				CREATE INDEX IF NOT EXISTS idx_teams_tournament_status ON teams(tournament_id, status);
				ALTER TABLE teams DROP CONSTRAINT IF EXISTS chk_teams_status;
				ALTER TABLE teams ADD CONSTRAINT chk_teams_status CHECK (status IN ('active', 'pending', 'rejected'));
			`); err != nil {
				return fmt.Errorf("failed to create teams indexes: %w", err)
			}

			fmt.Println("Teams table created successfully!")
			return nil
		})
	}, func(ctx context.Context, db *bun.DB) error {
		fmt.Println("Dropping teams table...")

		_, err := db.NewDropTable().Model((*teamdb.Team)(nil)).IfExists().Cascade().Exec(ctx)
		if err != nil {
			return fmt.Errorf("failed to drop teams table: %w", err)
		}

		fmt.Println("Teams table dropped successfully!")
		return nil
	})
}
