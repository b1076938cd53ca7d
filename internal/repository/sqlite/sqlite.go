package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"truthmines/internal/domain"
	"truthmines/internal/repository"

	_ "modernc.org/sqlite"
)

// MemoryPath opens a private in-memory database
const MemoryPath = ":memory:"

// Repository implements repository.Repository using SQLite
type Repository struct {
	db *sql.DB
}

var _ repository.Repository = (*Repository)(nil)

// New creates a new SQLite repository
func New(dbPath string) (*Repository, error) {
	dsn := dbPath
	if dbPath != MemoryPath {
		dsn += "?_pragma=busy_timeout(5000)"
	}

	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	// Every connection to :memory: is a separate database
	db.SetMaxOpenConns(1)

	repo := &Repository{db: db}
	if err := repo.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to migrate database: %w", err)
	}

	return repo, nil
}

func (r *Repository) migrate() error {
	schema := `
	CREATE TABLE IF NOT EXISTS nodes (
		id TEXT PRIMARY KEY,
		type TEXT NOT NULL,
		domain TEXT NOT NULL,
		title TEXT NOT NULL,
		content TEXT,
		formal TEXT,
		tags JSON,
		metadata JSON,
		sources JSON,
		created TEXT,
		updated TEXT
	);

	CREATE TABLE IF NOT EXISTS edges (
		seq INTEGER PRIMARY KEY AUTOINCREMENT,
		from_id TEXT NOT NULL,
		to_id TEXT NOT NULL,
		relation TEXT NOT NULL,
		domain TEXT NOT NULL,
		weight REAL
	);

	CREATE INDEX IF NOT EXISTS idx_nodes_domain ON nodes(domain);
	CREATE INDEX IF NOT EXISTS idx_nodes_type ON nodes(type);
	CREATE INDEX IF NOT EXISTS idx_edges_from ON edges(from_id);
	CREATE INDEX IF NOT EXISTS idx_edges_to ON edges(to_id);
	CREATE INDEX IF NOT EXISTS idx_edges_relation ON edges(relation);
	`

	_, err := r.db.Exec(schema)
	return err
}

// ImportGraph replaces the stored graph with fragment in one transaction.
// Nodes whose id was already imported keep their first definition.
func (r *Repository) ImportGraph(ctx context.Context, fragment *domain.GraphFragment) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `DELETE FROM edges`); err != nil {
		return fmt.Errorf("failed to clear edges: %w", err)
	}
	if _, err := tx.ExecContext(ctx, `DELETE FROM nodes`); err != nil {
		return fmt.Errorf("failed to clear nodes: %w", err)
	}

	nodeStmt, err := tx.PrepareContext(ctx, `
		INSERT INTO nodes (`+nodeColumns+`)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO NOTHING
	`)
	if err != nil {
		return fmt.Errorf("failed to prepare node insert: %w", err)
	}
	defer nodeStmt.Close()

	for i := range fragment.Nodes {
		args, err := nodeInsertArgs(&fragment.Nodes[i])
		if err != nil {
			return fmt.Errorf("node %s: %w", fragment.Nodes[i].ID, err)
		}
		if _, err := nodeStmt.ExecContext(ctx, args...); err != nil {
			return fmt.Errorf("failed to insert node %s: %w", fragment.Nodes[i].ID, err)
		}
	}

	edgeStmt, err := tx.PrepareContext(ctx, `
		INSERT INTO edges (`+edgeColumns+`) VALUES (?, ?, ?, ?, ?)
	`)
	if err != nil {
		return fmt.Errorf("failed to prepare edge insert: %w", err)
	}
	defer edgeStmt.Close()

	for i := range fragment.Edges {
		if _, err := edgeStmt.ExecContext(ctx, edgeInsertArgs(&fragment.Edges[i])...); err != nil {
			return fmt.Errorf("failed to insert edge %s: %w", fragment.Edges[i].String(), err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit import: %w", err)
	}
	return nil
}

// GetNode retrieves a single node by ID
func (r *Repository) GetNode(ctx context.Context, id string) (*domain.Node, error) {
	var row nodeRow
	err := r.db.QueryRowContext(ctx, `
		SELECT `+nodeColumns+` FROM nodes WHERE id = ?
	`, id).Scan(row.scanArgs()...)

	if errors.Is(err, sql.ErrNoRows) {
		return nil, &domain.NotFoundError{ID: id}
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query node: %w", err)
	}

	return row.toDomain()
}

// ListNodes returns nodes ordered by id, optionally filtered by type and domain
func (r *Repository) ListNodes(ctx context.Context, nodeType, domainName string) ([]domain.Node, error) {
	query := `SELECT ` + nodeColumns + ` FROM nodes WHERE 1=1`
	var args []any
	if nodeType != "" {
		query += ` AND type = ?`
		args = append(args, nodeType)
	}
	if domainName != "" {
		query += ` AND domain = ?`
		args = append(args, domainName)
	}
	query += ` ORDER BY id`

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query nodes: %w", err)
	}
	defer rows.Close()

	nodes := make([]domain.Node, 0)
	for rows.Next() {
		var row nodeRow
		if err := rows.Scan(row.scanArgs()...); err != nil {
			return nil, fmt.Errorf("failed to scan node: %w", err)
		}
		node, err := row.toDomain()
		if err != nil {
			return nil, fmt.Errorf("node %s: %w", row.ID, err)
		}
		nodes = append(nodes, *node)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating nodes: %w", err)
	}

	return nodes, nil
}

// ListEdges returns edges in import order, optionally filtered by relation
func (r *Repository) ListEdges(ctx context.Context, relation string) ([]domain.Edge, error) {
	query := `SELECT ` + edgeColumns + ` FROM edges`
	var args []any
	if relation != "" {
		query += ` WHERE relation = ?`
		args = append(args, relation)
	}
	query += ` ORDER BY seq`

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query edges: %w", err)
	}
	defer rows.Close()

	edges := make([]domain.Edge, 0)
	for rows.Next() {
		var row edgeRow
		if err := rows.Scan(row.scanArgs()...); err != nil {
			return nil, fmt.Errorf("failed to scan edge: %w", err)
		}
		edges = append(edges, row.toDomain())
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating edges: %w", err)
	}

	return edges, nil
}

// Neighbors returns the targets of edges leaving id, in import order
func (r *Repository) Neighbors(ctx context.Context, id string) ([]string, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT to_id FROM edges WHERE from_id = ? ORDER BY seq
	`, id)
	if err != nil {
		return nil, fmt.Errorf("failed to query neighbors: %w", err)
	}
	defer rows.Close()

	var ids []string
	for rows.Next() {
		var to string
		if err := rows.Scan(&to); err != nil {
			return nil, fmt.Errorf("failed to scan neighbor: %w", err)
		}
		ids = append(ids, to)
	}
	return ids, rows.Err()
}

// GetFragment loads the whole snapshot
func (r *Repository) GetFragment(ctx context.Context) (*domain.GraphFragment, error) {
	nodes, err := r.ListNodes(ctx, "", "")
	if err != nil {
		return nil, err
	}
	edges, err := r.ListEdges(ctx, "")
	if err != nil {
		return nil, err
	}
	return &domain.GraphFragment{Nodes: nodes, Edges: edges}, nil
}

// Stats tallies the stored snapshot
func (r *Repository) Stats(ctx context.Context) (*repository.Stats, error) {
	stats := &repository.Stats{
		ByDomain: make(map[string]int),
		ByType:   make(map[string]int),
	}

	if err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM nodes`).Scan(&stats.Nodes); err != nil {
		return nil, fmt.Errorf("failed to count nodes: %w", err)
	}
	if err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM edges`).Scan(&stats.Edges); err != nil {
		return nil, fmt.Errorf("failed to count edges: %w", err)
	}
	if err := r.tally(ctx, "domain", stats.ByDomain); err != nil {
		return nil, err
	}
	if err := r.tally(ctx, "type", stats.ByType); err != nil {
		return nil, err
	}
	return stats, nil
}

// tally counts nodes per value of column; column is never user input
func (r *Repository) tally(ctx context.Context, column string, into map[string]int) error {
	rows, err := r.db.QueryContext(ctx, `SELECT `+column+`, COUNT(*) FROM nodes GROUP BY `+column)
	if err != nil {
		return fmt.Errorf("failed to tally nodes by %s: %w", column, err)
	}
	defer rows.Close()

	for rows.Next() {
		var key string
		var n int
		if err := rows.Scan(&key, &n); err != nil {
			return fmt.Errorf("failed to scan %s tally: %w", column, err)
		}
		into[key] = n
	}
	return rows.Err()
}

// Close closes the database connection
func (r *Repository) Close() error {
	return r.db.Close()
}
