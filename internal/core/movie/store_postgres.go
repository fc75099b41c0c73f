// Copyright (c) 2026 Cinemateca. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package movie

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/taibuivan/cinemateca/internal/platform/apperr"
	"github.com/taibuivan/cinemateca/internal/platform/database/schema"
	"github.com/taibuivan/cinemateca/internal/platform/dberr"
)

// # PostgreSQL Repository

// entity is the NOT_FOUND label for movie lookups.
const entity = "Movie"

// slugConstraint is the unique constraint guarding movie slugs.
const slugConstraint = "movie_slug_key"

// postgresRepository implements [Repository] using pgx.
//
// Genres and countries are TEXT[] columns; the cast lives in core.movieactor
// and is folded into each row as a JSON array ordered by billing position.
type postgresRepository struct {
	pool *pgxpool.Pool
}

// NewPostgresRepository constructs a PostgreSQL backed movie store.
func NewPostgresRepository(pool *pgxpool.Pool) Repository {
	return &postgresRepository{pool: pool}
}

// selectMovies is the shared projection: every movie column, the cast as JSON
// and the window total.
var selectMovies = fmt.Sprintf(`
	SELECT
		m.%s,
		COALESCE((
			SELECT json_agg(json_build_object('actorId', ma.%s, 'role', ma.%s) ORDER BY ma.%s)
			FROM %s ma
			WHERE ma.%s = m.%s
		), '[]') AS actors,
		COUNT(*) OVER() AS total_count
	FROM %s m`,
	strings.Join(schema.CoreMovie.Columns(), ", m."),
	schema.CoreMovieActor.ActorID, schema.CoreMovieActor.Role, schema.CoreMovieActor.Position,
	schema.CoreMovieActor.Table,
	schema.CoreMovieActor.MovieID, schema.CoreMovie.ID,
	schema.CoreMovie.Table,
)

// # Query Translation

// escapeLike escapes the LIKE wildcards so user text matches literally.
func escapeLike(text string) string {
	return strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`).Replace(text)
}

/*
buildWhere translates a [Filter] into a WHERE clause.

Description: Placeholders are numbered from argID. Array columns use the
overlap operator (&&) so a movie matches when it carries any requested
value; the scalar age rating uses = ANY.

Parameters:
  - filter: Filter
  - argID: int (first placeholder number)

Returns:
  - string: " WHERE ..." or "" when the filter is empty
  - []any: Arguments in placeholder order
*/
func buildWhere(filter Filter, argID int) (string, []any) {
	var conditions []string
	var args []any

	// Title substring
	if filter.Title != "" {
		conditions = append(conditions, fmt.Sprintf(`m.%s ILIKE $%d ESCAPE '\'`, schema.CoreMovie.Title, argID))
		args = append(args, "%"+escapeLike(filter.Title)+"%")
		argID++
	}

	// Genre overlap
	if len(filter.Genres) > 0 {
		conditions = append(conditions, fmt.Sprintf("m.%s && $%d::text[]", schema.CoreMovie.Genres, argID))
		args = append(args, filter.Genres)
		argID++
	}

	// Country overlap
	if len(filter.Countries) > 0 {
		conditions = append(conditions, fmt.Sprintf("m.%s && $%d::text[]", schema.CoreMovie.Countries, argID))
		args = append(args, filter.Countries)
		argID++
	}

	// Age rating membership
	if len(filter.AgeRatings) > 0 {
		conditions = append(conditions, fmt.Sprintf("m.%s = ANY($%d)", schema.CoreMovie.AgeRating, argID))
		args = append(args, filter.AgeRatings)
	}

	if len(conditions) == 0 {
		return "", nil
	}
	return " WHERE " + strings.Join(conditions, " AND "), args
}

// orderBy translates a [Sort]. The id tie-breaker keeps paging stable.
func orderBy(sort Sort) string {
	column := "m." + schema.CoreMovie.ReleaseDate
	switch sort.Field {
	case SortTitle:
		column = "lower(m." + schema.CoreMovie.Title + ")"
	case SortCreatedAt:
		column = "m." + schema.CoreMovie.CreatedAt
	}

	direction := "DESC"
	if !sort.Descending {
		direction = "ASC"
	}
	return fmt.Sprintf(" ORDER BY %s %s, m.%s %s", column, direction, schema.CoreMovie.ID, direction)
}

// # Scanning

func scanMovie(row pgx.Row) (*Movie, int, error) {
	movie := &Movie{}
	var poster *string
	var actorsJSON []byte
	var total int

	err := row.Scan(
		&movie.ID,
		&movie.Slug,
		&movie.Title,
		&movie.Description,
		&movie.Genre,
		&movie.CountryOfProduction,
		&movie.ReleaseDate,
		&movie.AgeRating,
		&poster,
		&movie.CreatedAt,
		&movie.UpdatedAt,
		&actorsJSON,
		&total,
	)
	if err != nil {
		return nil, 0, err
	}

	if err := json.Unmarshal(actorsJSON, &movie.Actors); err != nil {
		return nil, 0, fmt.Errorf("postgres: failed to unmarshal cast: %w", err)
	}
	if poster != nil {
		movie.Poster = *poster
	}

	movie.derive()
	return movie, total, nil
}

func (repository *postgresRepository) queryMovies(context context.Context, query string, args ...any) ([]*Movie, int, error) {
	rows, err := repository.pool.Query(context, query, args...)
	if err != nil {
		return nil, 0, dberr.Wrap(err, entity)
	}
	defer rows.Close()

	movies := []*Movie{}
	total := 0
	for rows.Next() {
		movie, count, err := scanMovie(rows)
		if err != nil {
			return nil, 0, dberr.Wrap(err, entity)
		}
		movies = append(movies, movie)
		total = count
	}
	if err := rows.Err(); err != nil {
		return nil, 0, dberr.Wrap(err, entity)
	}
	return movies, total, nil
}

func (repository *postgresRepository) findOne(context context.Context, column, value string) (*Movie, error) {
	query := fmt.Sprintf("%s WHERE m.%s = $1", selectMovies, column)

	movie, _, err := scanMovie(repository.pool.QueryRow(context, query, value))
	if err != nil {
		return nil, dberr.Wrap(err, entity)
	}
	return movie, nil
}

// # Lookups

func (repository *postgresRepository) FindBySlug(context context.Context, slug string) (*Movie, error) {
	return repository.findOne(context, schema.CoreMovie.Slug, slug)
}

func (repository *postgresRepository) FindByID(context context.Context, id string) (*Movie, error) {
	return repository.findOne(context, schema.CoreMovie.ID, id)
}

func (repository *postgresRepository) FindAll(context context.Context) ([]*Movie, error) {
	movies, _, err := repository.queryMovies(context, selectMovies+orderBy(DefaultSort))
	return movies, err
}

func (repository *postgresRepository) FindPaginated(context context.Context, skip, limit int, sort Sort) ([]*Movie, error) {
	query := selectMovies + orderBy(sort) + " LIMIT $1 OFFSET $2"
	movies, _, err := repository.queryMovies(context, query, limit, skip)
	return movies, err
}

/*
Search returns one page of matching movies and the total match count.

Description: The total comes from COUNT(*) OVER() on the same statement.
When the requested page lies past the last match no row carries the total,
so a separate count is issued.
*/
func (repository *postgresRepository) Search(context context.Context, query Query, skip, limit int) ([]*Movie, int, error) {
	where, args := buildWhere(query.Filter, 1)
	argID := len(args) + 1

	statement := fmt.Sprintf("%s%s%s LIMIT $%d OFFSET $%d", selectMovies, where, orderBy(query.Sort), argID, argID+1)
	args = append(args, limit, skip)

	movies, total, err := repository.queryMovies(context, statement, args...)
	if err != nil {
		return nil, 0, err
	}

	if len(movies) == 0 && skip > 0 {
		total, err = repository.Count(context, query.Filter)
		if err != nil {
			return nil, 0, err
		}
	}
	return movies, total, nil
}

func (repository *postgresRepository) Count(context context.Context, filter Filter) (int, error) {
	where, args := buildWhere(filter, 1)
	query := fmt.Sprintf("SELECT count(*) FROM %s m%s", schema.CoreMovie.Table, where)

	var total int
	if err := repository.pool.QueryRow(context, query, args...).Scan(&total); err != nil {
		return 0, dberr.Wrap(err, entity)
	}
	return total, nil
}

func (repository *postgresRepository) DistinctValues(context context.Context, field string) ([]string, error) {
	var query string
	switch field {
	case DistinctGenre:
		query = fmt.Sprintf("SELECT DISTINCT unnest(%s) AS value FROM %s ORDER BY value", schema.CoreMovie.Genres, schema.CoreMovie.Table)
	case DistinctCountry:
		query = fmt.Sprintf("SELECT DISTINCT unnest(%s) AS value FROM %s ORDER BY value", schema.CoreMovie.Countries, schema.CoreMovie.Table)
	case DistinctAgeRating:
		query = fmt.Sprintf("SELECT DISTINCT %s AS value FROM %s ORDER BY value", schema.CoreMovie.AgeRating, schema.CoreMovie.Table)
	default:
		return nil, apperr.BadRequest(fmt.Sprintf("Unknown filter field %q", field))
	}

	rows, err := repository.pool.Query(context, query)
	if err != nil {
		return nil, dberr.Wrap(err, entity)
	}

	values, err := pgx.CollectRows(rows, pgx.RowTo[string])
	if err != nil {
		return nil, dberr.Wrap(err, entity)
	}
	return values, nil
}

// # Writes

func (repository *postgresRepository) Create(context context.Context, movie *Movie) error {
	transaction, err := repository.pool.Begin(context)
	if err != nil {
		return dberr.Wrap(err, entity)
	}
	defer transaction.Rollback(context)

	query := fmt.Sprintf(`
		INSERT INTO %s (%s, %s, %s, %s, %s, %s, %s, %s, %s)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, NULLIF($9, ''))
		RETURNING %s, %s
	`,
		schema.CoreMovie.Table,
		schema.CoreMovie.ID, schema.CoreMovie.Slug, schema.CoreMovie.Title, schema.CoreMovie.Description,
		schema.CoreMovie.Genres, schema.CoreMovie.Countries, schema.CoreMovie.ReleaseDate,
		schema.CoreMovie.AgeRating, schema.CoreMovie.Poster,
		schema.CoreMovie.CreatedAt, schema.CoreMovie.UpdatedAt,
	)

	err = transaction.QueryRow(context, query,
		movie.ID, movie.Slug, movie.Title, movie.Description,
		movie.Genre, movie.CountryOfProduction, movie.ReleaseDate,
		movie.AgeRating, movie.Poster,
	).Scan(&movie.CreatedAt, &movie.UpdatedAt)
	if err != nil {
		return wrapWrite(err, movie.Title)
	}

	if err := replaceCast(context, transaction, movie.ID, movie.Actors); err != nil {
		return err
	}

	if err := transaction.Commit(context); err != nil {
		return dberr.Wrap(err, entity)
	}

	movie.derive()
	return nil
}

func (repository *postgresRepository) Update(context context.Context, movie *Movie) error {
	transaction, err := repository.pool.Begin(context)
	if err != nil {
		return dberr.Wrap(err, entity)
	}
	defer transaction.Rollback(context)

	query := fmt.Sprintf(`
		UPDATE %s
		SET %s = $2, %s = $3, %s = $4, %s = $5, %s = $6, %s = $7, %s = $8, %s = NULLIF($9, ''), %s = now()
		WHERE %s = $1
		RETURNING %s, %s
	`,
		schema.CoreMovie.Table,
		schema.CoreMovie.Slug, schema.CoreMovie.Title, schema.CoreMovie.Description, schema.CoreMovie.Genres,
		schema.CoreMovie.Countries, schema.CoreMovie.ReleaseDate, schema.CoreMovie.AgeRating,
		schema.CoreMovie.Poster, schema.CoreMovie.UpdatedAt,
		schema.CoreMovie.ID,
		schema.CoreMovie.CreatedAt, schema.CoreMovie.UpdatedAt,
	)

	err = transaction.QueryRow(context, query,
		movie.ID, movie.Slug, movie.Title, movie.Description, movie.Genre,
		movie.CountryOfProduction, movie.ReleaseDate, movie.AgeRating, movie.Poster,
	).Scan(&movie.CreatedAt, &movie.UpdatedAt)
	if err != nil {
		return wrapWrite(err, movie.Title)
	}

	if movie.Actors != nil {
		if _, err := transaction.Exec(context,
			fmt.Sprintf("DELETE FROM %s WHERE %s = $1", schema.CoreMovieActor.Table, schema.CoreMovieActor.MovieID),
			movie.ID,
		); err != nil {
			return dberr.Wrap(err, entity)
		}
		if err := replaceCast(context, transaction, movie.ID, movie.Actors); err != nil {
			return err
		}
	}

	if err := transaction.Commit(context); err != nil {
		return dberr.Wrap(err, entity)
	}

	movie.derive()
	return nil
}

// replaceCast inserts the cast rows in billing order.
func replaceCast(context context.Context, transaction pgx.Tx, movieID string, actors []ActorRef) error {
	if len(actors) == 0 {
		return nil
	}

	query := fmt.Sprintf(`INSERT INTO %s (%s, %s, %s, %s) VALUES ($1, $2, $3, $4)`,
		schema.CoreMovieActor.Table,
		schema.CoreMovieActor.MovieID, schema.CoreMovieActor.ActorID,
		schema.CoreMovieActor.Role, schema.CoreMovieActor.Position,
	)

	batch := &pgx.Batch{}
	for position, ref := range actors {
		batch.Queue(query, movieID, ref.ActorID, ref.Role, position)
	}

	if err := transaction.SendBatch(context, batch).Close(); err != nil {
		return dberr.Wrap(err, "Actor")
	}
	return nil
}

// wrapWrite maps a slug collision to a Duplicate on the title field.
func wrapWrite(err error, title string) error {
	if dberr.IsUniqueViolation(err, slugConstraint) {
		duplicate := apperr.Duplicate(entity, "title", title)
		duplicate.Cause = err
		return duplicate
	}
	return dberr.Wrap(err, entity)
}

func (repository *postgresRepository) DeleteBySlug(context context.Context, slug string) error {
	query := fmt.Sprintf("DELETE FROM %s WHERE %s = $1", schema.CoreMovie.Table, schema.CoreMovie.Slug)

	tag, err := repository.pool.Exec(context, query, slug)
	if err != nil {
		return dberr.Wrap(err, entity)
	}
	if tag.RowsAffected() == 0 {
		return apperr.NotFound(entity)
	}
	return nil
}

// # Cast Relationship

func (repository *postgresRepository) FindByActorID(context context.Context, actorID string) ([]*Movie, error) {
	query := fmt.Sprintf(`%s
		WHERE EXISTS (SELECT 1 FROM %s x WHERE x.%s = m.%s AND x.%s = $1)%s`,
		selectMovies,
		schema.CoreMovieActor.Table, schema.CoreMovieActor.MovieID, schema.CoreMovie.ID, schema.CoreMovieActor.ActorID,
		orderBy(DefaultSort),
	)

	movies, _, err := repository.queryMovies(context, query, actorID)
	return movies, err
}

func (repository *postgresRepository) FindAllContainingActor(context context.Context, actorSlug string) ([]*Movie, error) {
	query := fmt.Sprintf(`%s
		WHERE EXISTS (
			SELECT 1 FROM %s x
			JOIN %s a ON a.%s = x.%s
			WHERE x.%s = m.%s AND a.%s = $1
		)%s`,
		selectMovies,
		schema.CoreMovieActor.Table,
		schema.CoreActor.Table, schema.CoreActor.ID, schema.CoreMovieActor.ActorID,
		schema.CoreMovieActor.MovieID, schema.CoreMovie.ID, schema.CoreActor.Slug,
		orderBy(DefaultSort),
	)

	movies, _, err := repository.queryMovies(context, query, actorSlug)
	return movies, err
}

func (repository *postgresRepository) AddActor(context context.Context, movieID string, ref ActorRef) error {
	query := fmt.Sprintf(`
		INSERT INTO %s (%s, %s, %s, %s)
		SELECT $1, $2, $3, COALESCE(MAX(%s) + 1, 0) FROM %s WHERE %s = $1
	`,
		schema.CoreMovieActor.Table,
		schema.CoreMovieActor.MovieID, schema.CoreMovieActor.ActorID, schema.CoreMovieActor.Role, schema.CoreMovieActor.Position,
		schema.CoreMovieActor.Position, schema.CoreMovieActor.Table, schema.CoreMovieActor.MovieID,
	)

	if _, err := repository.pool.Exec(context, query, movieID, ref.ActorID, ref.Role); err != nil {
		if dberr.IsUniqueViolation(err, "") {
			conflict := apperr.Conflict("Actor is already in this movie")
			conflict.Cause = err
			return conflict
		}
		return dberr.Wrap(err, "Actor")
	}
	return repository.touch(context, movieID)
}

func (repository *postgresRepository) UpdateActorRole(context context.Context, movieID, actorID, role string) error {
	query := fmt.Sprintf("UPDATE %s SET %s = $3 WHERE %s = $1 AND %s = $2",
		schema.CoreMovieActor.Table, schema.CoreMovieActor.Role,
		schema.CoreMovieActor.MovieID, schema.CoreMovieActor.ActorID,
	)

	tag, err := repository.pool.Exec(context, query, movieID, actorID, role)
	if err != nil {
		return dberr.Wrap(err, "Cast entry")
	}
	if tag.RowsAffected() == 0 {
		return apperr.NotFound("Cast entry")
	}
	return repository.touch(context, movieID)
}

func (repository *postgresRepository) RemoveActor(context context.Context, movieID, actorID string) (bool, error) {
	query := fmt.Sprintf("DELETE FROM %s WHERE %s = $1 AND %s = $2",
		schema.CoreMovieActor.Table, schema.CoreMovieActor.MovieID, schema.CoreMovieActor.ActorID,
	)

	tag, err := repository.pool.Exec(context, query, movieID, actorID)
	if err != nil {
		return false, dberr.Wrap(err, "Cast entry")
	}
	if tag.RowsAffected() == 0 {
		return false, nil
	}
	return true, repository.touch(context, movieID)
}

// touch bumps updatedat after a cast change.
func (repository *postgresRepository) touch(context context.Context, movieID string) error {
	query := fmt.Sprintf("UPDATE %s SET %s = now() WHERE %s = $1",
		schema.CoreMovie.Table, schema.CoreMovie.UpdatedAt, schema.CoreMovie.ID,
	)
	if _, err := repository.pool.Exec(context, query, movieID); err != nil {
		return dberr.Wrap(err, entity)
	}
	return nil
}
