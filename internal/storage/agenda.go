package storage

import (
	"context"

	"github.com/jmoiron/sqlx"
)

func (p *SQLProvider) CreateAgendas(ctx context.Context, agendas []Agenda) error {
	if len(agendas) == 0 {
		return nil
	}
	_, err := p.db.NamedExecContext(ctx,
		"INSERT INTO agendas (id, title, complete) VALUES (:id, :title, :complete)",
		agendas)
	return err
}

// GetAgendasByIDs returns the agendas for the given ids in the order the ids
// were supplied. Missing ids are skipped, not errored; the caller decides
// whether a shortfall matters.
func (p *SQLProvider) GetAgendasByIDs(ctx context.Context, ids []string) ([]Agenda, error) {
	if len(ids) == 0 {
		return nil, nil
	}

	query, args, err := sqlx.In("SELECT id, title, complete FROM agendas WHERE id IN (?)", ids)
	if err != nil {
		return nil, err
	}

	var agendas []Agenda
	if err := p.db.SelectContext(ctx, &agendas, p.db.Rebind(query), args...); err != nil {
		return nil, err
	}

	byID := make(map[string]Agenda, len(agendas))
	for _, agenda := range agendas {
		byID[agenda.ID] = agenda
	}

	ordered := make([]Agenda, 0, len(agendas))
	for _, id := range ids {
		if agenda, ok := byID[id]; ok {
			ordered = append(ordered, agenda)
		}
	}
	return ordered, nil
}

func (p *SQLProvider) SaveAgendas(ctx context.Context, agendas []Agenda) error {
	if len(agendas) == 0 {
		return nil
	}
	_, err := p.db.NamedExecContext(ctx,
		"INSERT OR REPLACE INTO agendas (id, title, complete) VALUES (:id, :title, :complete)",
		agendas)
	return err
}
