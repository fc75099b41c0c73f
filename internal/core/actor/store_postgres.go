// Copyright (c) 2026 Cinemateca. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package actor

import (
	"context"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/taibuivan/cinemateca/internal/platform/apperr"
	"github.com/taibuivan/cinemateca/internal/platform/database/schema"
	"github.com/taibuivan/cinemateca/internal/platform/dberr"
)

// # PostgreSQL Repository

// entity is the NOT_FOUND label for actor lookups.
const entity = "Actor"

// slugConstraint is the unique constraint guarding actor slugs.
const slugConstraint = "actor_slug_key"

type postgresRepository struct {
	pool *pgxpool.Pool
}

// NewPostgresRepository constructs a PostgreSQL backed actor store.
func NewPostgresRepository(pool *pgxpool.Pool) Repository {
	return &postgresRepository{pool: pool}
}

var selectActors = fmt.Sprintf("SELECT a.%s, COUNT(*) OVER() AS total_count FROM %s a",
	strings.Join(schema.CoreActor.Columns(), ", a."),
	schema.CoreActor.Table,
)

var orderByName = fmt.Sprintf(" ORDER BY lower(a.%s), a.%s", schema.CoreActor.Name, schema.CoreActor.ID)

func escapeLike(text string) string {
	return strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`).Replace(text)
}

// # Scanning

func scanActor(row pgx.Row) (*Actor, int, error) {
	actor := &Actor{}
	var portrait *string
	var total int

	err := row.Scan(
		&actor.ID,
		&actor.Slug,
		&actor.Name,
		&actor.Description,
		&actor.DateOfBirth,
		&actor.DateOfDeath,
		&actor.PlaceOfBirth,
		&portrait,
		&actor.CreatedAt,
		&actor.UpdatedAt,
		&total,
	)
	if err != nil {
		return nil, 0, err
	}

	if portrait != nil {
		actor.Portrait = *portrait
	}
	return actor, total, nil
}

func (repository *postgresRepository) queryActors(context context.Context, query string, args ...any) ([]*Actor, int, error) {
	rows, err := repository.pool.Query(context, query, args...)
	if err != nil {
		return nil, 0, dberr.Wrap(err, entity)
	}
	defer rows.Close()

	actors := []*Actor{}
	total := 0
	for rows.Next() {
		actor, count, err := scanActor(rows)
		if err != nil {
			return nil, 0, dberr.Wrap(err, entity)
		}
		actors = append(actors, actor)
		total = count
	}
	if err := rows.Err(); err != nil {
		return nil, 0, dberr.Wrap(err, entity)
	}
	return actors, total, nil
}

func (repository *postgresRepository) findOne(context context.Context, column, value string) (*Actor, error) {
	query := fmt.Sprintf("%s WHERE a.%s = $1", selectActors, column)

	actor, _, err := scanActor(repository.pool.QueryRow(context, query, value))
	if err != nil {
		return nil, dberr.Wrap(err, entity)
	}
	return actor, nil
}

// # Lookups

func (repository *postgresRepository) FindBySlug(context context.Context, slug string) (*Actor, error) {
	return repository.findOne(context, schema.CoreActor.Slug, slug)
}

func (repository *postgresRepository) FindByID(context context.Context, id string) (*Actor, error) {
	return repository.findOne(context, schema.CoreActor.ID, id)
}

func (repository *postgresRepository) FindByIDs(context context.Context, ids []string) ([]*Actor, error) {
	if len(ids) == 0 {
		return []*Actor{}, nil
	}

	query := fmt.Sprintf("%s WHERE a.%s = ANY($1::uuid[])", selectActors, schema.CoreActor.ID)
	actors, _, err := repository.queryActors(context, query, ids)
	return actors, err
}

func (repository *postgresRepository) FindAll(context context.Context) ([]*Actor, error) {
	actors, _, err := repository.queryActors(context, selectActors+orderByName)
	return actors, err
}

func (repository *postgresRepository) List(context context.Context, filter Filter, skip, limit int) ([]*Actor, int, error) {
	var where string
	args := []any{}

	if query := strings.TrimSpace(filter.Query); query != "" {
		where = fmt.Sprintf(` WHERE a.%s ILIKE $1 ESCAPE '\'`, schema.CoreActor.Name)
		args = append(args, "%"+escapeLike(query)+"%")
	}

	argID := len(args) + 1
	statement := fmt.Sprintf("%s%s%s LIMIT $%d OFFSET $%d", selectActors, where, orderByName, argID, argID+1)

	actors, total, err := repository.queryActors(context, statement, append(args, limit, skip)...)
	if err != nil {
		return nil, 0, err
	}

	// Past the last page no row carries the window total
	if len(actors) == 0 && skip > 0 {
		countQuery := fmt.Sprintf("SELECT count(*) FROM %s a%s", schema.CoreActor.Table, where)
		if err := repository.pool.QueryRow(context, countQuery, args...).Scan(&total); err != nil {
			return nil, 0, dberr.Wrap(err, entity)
		}
	}
	return actors, total, nil
}

// # Writes

func (repository *postgresRepository) Create(context context.Context, actor *Actor) error {
	query := fmt.Sprintf(`
		INSERT INTO %s (%s, %s, %s, %s, %s, %s, %s, %s)
		VALUES ($1, $2, $3, $4, $5, $6, $7, NULLIF($8, ''))
		RETURNING %s, %s
	`,
		schema.CoreActor.Table,
		schema.CoreActor.ID, schema.CoreActor.Slug, schema.CoreActor.Name, schema.CoreActor.Description,
		schema.CoreActor.DateOfBirth, schema.CoreActor.DateOfDeath, schema.CoreActor.PlaceOfBirth,
		schema.CoreActor.Portrait,
		schema.CoreActor.CreatedAt, schema.CoreActor.UpdatedAt,
	)

	err := repository.pool.QueryRow(context, query,
		actor.ID, actor.Slug, actor.Name, actor.Description,
		actor.DateOfBirth, actor.DateOfDeath, actor.PlaceOfBirth, actor.Portrait,
	).Scan(&actor.CreatedAt, &actor.UpdatedAt)
	if err != nil {
		return wrapWrite(err, actor.Name)
	}
	return nil
}

func (repository *postgresRepository) Update(context context.Context, actor *Actor) error {
	query := fmt.Sprintf(`
		UPDATE %s
		SET %s = $2, %s = $3, %s = $4, %s = $5, %s = $6, %s = $7, %s = NULLIF($8, ''), %s = now()
		WHERE %s = $1
		RETURNING %s, %s
	`,
		schema.CoreActor.Table,
		schema.CoreActor.Slug, schema.CoreActor.Name, schema.CoreActor.Description, schema.CoreActor.DateOfBirth,
		schema.CoreActor.DateOfDeath, schema.CoreActor.PlaceOfBirth, schema.CoreActor.Portrait,
		schema.CoreActor.UpdatedAt,
		schema.CoreActor.ID,
		schema.CoreActor.CreatedAt, schema.CoreActor.UpdatedAt,
	)

	err := repository.pool.QueryRow(context, query,
		actor.ID, actor.Slug, actor.Name, actor.Description,
		actor.DateOfBirth, actor.DateOfDeath, actor.PlaceOfBirth, actor.Portrait,
	).Scan(&actor.CreatedAt, &actor.UpdatedAt)
	if err != nil {
		return wrapWrite(err, actor.Name)
	}
	return nil
}

// wrapWrite maps a slug collision to a Duplicate on the name field.
func wrapWrite(err error, name string) error {
	if dberr.IsUniqueViolation(err, slugConstraint) {
		duplicate := apperr.Duplicate(entity, "name", name)
		duplicate.Cause = err
		return duplicate
	}
	return dberr.Wrap(err, entity)
}

func (repository *postgresRepository) DeleteBySlug(context context.Context, slug string) error {
	query := fmt.Sprintf("DELETE FROM %s WHERE %s = $1", schema.CoreActor.Table, schema.CoreActor.Slug)

	tag, err := repository.pool.Exec(context, query, slug)
	if err != nil {
		return dberr.Wrap(err, entity)
	}
	if tag.RowsAffected() == 0 {
		return apperr.NotFound(entity)
	}
	return nil
}
