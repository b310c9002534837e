package teamdb

import (
	"time"

	teamdomain "github.com/ahalia-sports/tournament-admin/app/modules/team/domain"
	"github.com/uptrace/bun"
)

// Team is the stored form of a team.
type Team struct {
	bun.BaseModel `bun:"table:teams,alias:t"`
	ID            string    `bun:"id,pk"`
	TournamentID  string    `bun:"tournament_id,notnull"`
	Seq           int64     `bun:"seq,autoincrement"`
	Name          string    `bun:"name,notnull"`
	Department    string    `bun:"department"`
	Captain       string    `bun:"captain,notnull"`
	ContactEmail  string    `bun:"contact_email,notnull"`
	Phone         string    `bun:"phone"`
	Description   string    `bun:"description"`
	PlayerCount   int       `bun:"player_count,notnull,default:0"`
	Status        string    `bun:"status,notnull,default:'pending'"`
	CreatedAt     time.Time `bun:",nullzero,notnull,default:current_timestamp"`
	UpdatedAt     time.Time `bun:",nullzero,notnull,default:current_timestamp"`
}

// FromDomain converts a domain team into its stored form.
func FromDomain(t teamdomain.Team) *Team {
	return &Team{
		ID:           t.ID,
		TournamentID: t.TournamentID,
		Name:         t.Name,
		Department:   t.Department,
		Captain:      t.Captain,
		ContactEmail: t.ContactEmail,
		Phone:        t.Phone,
		Description:  t.Description,
		PlayerCount:  t.PlayerCount,
		Status:       string(t.Status),
		CreatedAt:    t.CreatedAt,
	}
}

// ToDomain converts the stored row back into a domain team.
func (r *Team) ToDomain() teamdomain.Team {
	return teamdomain.Team{
		ID:           r.ID,
		TournamentID: r.TournamentID,
		Name:         r.Name,
		Department:   r.Department,
		Captain:      r.Captain,
		ContactEmail: r.ContactEmail,
		Phone:        r.Phone,
		Description:  r.Description,
		PlayerCount:  r.PlayerCount,
		Status:       teamdomain.Status(r.Status),
		CreatedAt:    r.CreatedAt,
	}
}

// Player is the stored form of a player. Team names never change, so the row keeps a copy.
type Player struct {
	bun.BaseModel `bun:"table:players,alias:p"`
	ID            string    `bun:"id,pk"`
	TournamentID  string    `bun:"tournament_id,notnull"`
	TeamID        string    `bun:"team_id,notnull"`
	TeamName      string    `bun:"team_name,notnull"`
	Seq           int64     `bun:"seq,autoincrement"`
	Name          string    `bun:"name,notnull"`
	Position      string    `bun:"position,notnull"`
	Goals         int       `bun:"goals,notnull,default:0"`
	Assists       int       `bun:"assists,notnull,default:0"`
	YellowCards   int       `bun:"yellow_cards,notnull,default:0"`
	RedCards      int       `bun:"red_cards,notnull,default:0"`
	CreatedAt     time.Time `bun:",nullzero,notnull,default:current_timestamp"`
	UpdatedAt     time.Time `bun:",nullzero,notnull,default:current_timestamp"`
}

// PlayerFromDomain converts a domain player into its stored form.
func PlayerFromDomain(p teamdomain.Player) *Player {
	return &Player{
		ID:           p.ID,
		TournamentID: p.TournamentID,
		TeamID:       p.TeamID,
		TeamName:     p.TeamName,
		Name:         p.Name,
		Position:     string(p.Position),
		Goals:        p.Stats.Goals,
		Assists:      p.Stats.Assists,
		YellowCards:  p.Stats.YellowCards,
		RedCards:     p.Stats.RedCards,
		CreatedAt:    p.CreatedAt,
	}
}

// ToDomain converts the stored row back into a domain player.
func (r *Player) ToDomain() teamdomain.Player {
	return teamdomain.Player{
		ID:           r.ID,
		TournamentID: r.TournamentID,
		TeamID:       r.TeamID,
		TeamName:     r.TeamName,
		Name:         r.Name,
		Position:     teamdomain.Position(r.Position),
		Stats: teamdomain.PlayerStats{
			Goals:       r.Goals,
			Assists:     r.Assists,
			YellowCards: r.YellowCards,
			RedCards:    r.RedCards,
		},
		CreatedAt: r.CreatedAt,
	}
}
