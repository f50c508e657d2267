package schema

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/dbsmedya/gorefpath/internal/logger"
	"github.com/dbsmedya/gorefpath/internal/sqlutil"
)

// Introspector builds a Registry from a MySQL schema through
// information_schema. Tables become record-bearing types with one sub-type
// each, views become non record-bearing types, columns become data fields
// and every foreign key becomes a pair of reference fields.
type Introspector struct {
	db       *sql.DB
	database string
	logger   *logger.Logger
}

// NewIntrospector creates an introspector for the named database.
func NewIntrospector(db *sql.DB, database string, log *logger.Logger) (*Introspector, error) {
	if db == nil {
		return nil, fmt.Errorf("database is nil")
	}
	if database == "" {
		return nil, fmt.Errorf("database name is required")
	}
	if log == nil {
		log = logger.NewDefault()
	}
	return &Introspector{db: db, database: database, logger: log}, nil
}

type foreignKey struct {
	table      string
	column     string
	referenced string
}

// Load reads tables, columns and foreign keys and returns the registry.
func (in *Introspector) Load(ctx context.Context) (*Memory, error) {
	reg := NewMemory()

	if err := in.loadTables(ctx, reg); err != nil {
		return nil, err
	}

	fks, err := in.loadForeignKeys(ctx)
	if err != nil {
		return nil, err
	}
	fkColumns := make(map[string]foreignKey, len(fks))
	for _, fk := range fks {
		fkColumns[fk.table+"."+fk.column] = fk
	}

	if err := in.loadColumns(ctx, reg, fkColumns); err != nil {
		return nil, err
	}

	// Reverse side: the parent table can reach every child row.
	for _, fk := range fks {
		if _, err := reg.Type(fk.referenced); err != nil {
			in.logger.Warnf("Foreign key %s.%s references unknown table %q, skipping reverse field",
				fk.table, fk.column, fk.referenced)
			continue
		}
		reverse := &Field{
			Name:                fk.table + "_by_" + fk.column,
			Label:               fmt.Sprintf("%s (%s)", fk.table, fk.column),
			Type:                KindReference,
			TargetType:          fk.table,
			Cardinality:         0,
			DisplayConfigurable: true,
		}
		err := reg.AddField(fk.referenced, fk.referenced, reverse)
		if errors.Is(err, ErrDuplicateField) {
			in.logger.Warnf("Reverse field %s on %q collides with an existing column, skipping",
				reverse.Name, fk.referenced)
			continue
		}
		if err != nil {
			return nil, fmt.Errorf("failed to add reverse field for %s.%s: %w", fk.table, fk.column, err)
		}
	}

	in.logger.Infof("Introspected %d tables and %d foreign keys from %q",
		len(reg.TypeIDs()), len(fks), in.database)
	return reg, nil
}

func (in *Introspector) loadTables(ctx context.Context, reg *Memory) error {
	const query = `
		SELECT TABLE_NAME, TABLE_TYPE
		FROM information_schema.TABLES
		WHERE TABLE_SCHEMA = ?
		ORDER BY TABLE_NAME`

	rows, err := in.db.QueryContext(ctx, query, in.database)
	if err != nil {
		return fmt.Errorf("failed to query tables: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var name, tableType string
		if err := rows.Scan(&name, &tableType); err != nil {
			return fmt.Errorf("failed to scan table row: %w", err)
		}
		if err := sqlutil.ValidateIdentifier("table", name); err != nil {
			in.logger.Warnf("Skipping table: %v", err)
			continue
		}
		reg.AddType(Type{
			ID:            name,
			Label:         name,
			RecordBearing: tableType == "BASE TABLE",
		})
		if err := reg.AddSubType(name, SubType{ID: name}); err != nil {
			return err
		}
	}
	if err := rows.Err(); err != nil {
		return fmt.Errorf("error iterating tables: %w", err)
	}
	return nil
}

func (in *Introspector) loadColumns(ctx context.Context, reg *Memory, fkColumns map[string]foreignKey) error {
	const query = `
		SELECT TABLE_NAME, COLUMN_NAME, DATA_TYPE
		FROM information_schema.COLUMNS
		WHERE TABLE_SCHEMA = ?
		ORDER BY TABLE_NAME, ORDINAL_POSITION`

	rows, err := in.db.QueryContext(ctx, query, in.database)
	if err != nil {
		return fmt.Errorf("failed to query columns: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var table, column, dataType string
		if err := rows.Scan(&table, &column, &dataType); err != nil {
			return fmt.Errorf("failed to scan column row: %w", err)
		}
		if err := sqlutil.ValidateIdentifier("column", column); err != nil {
			in.logger.Warnf("Skipping column of %s: %v", table, err)
			continue
		}

		field := &Field{
			Name:                column,
			Label:               column,
			Type:                dataType,
			Cardinality:         1,
			DisplayConfigurable: true,
		}
		if fk, ok := fkColumns[table+"."+column]; ok {
			field.Type = KindReference
			field.TargetType = fk.referenced
		}

		if err := reg.AddField(table, table, field); err != nil {
			in.logger.Warnf("Skipping column %s.%s: %v", table, column, err)
		}
	}
	if err := rows.Err(); err != nil {
		return fmt.Errorf("error iterating columns: %w", err)
	}
	return nil
}

func (in *Introspector) loadForeignKeys(ctx context.Context) ([]foreignKey, error) {
	const query = `
		SELECT TABLE_NAME, COLUMN_NAME, REFERENCED_TABLE_NAME
		FROM information_schema.KEY_COLUMN_USAGE
		WHERE TABLE_SCHEMA = ?
		  AND REFERENCED_TABLE_NAME IS NOT NULL
		ORDER BY TABLE_NAME, ORDINAL_POSITION`

	rows, err := in.db.QueryContext(ctx, query, in.database)
	if err != nil {
		return nil, fmt.Errorf("failed to query foreign keys: %w", err)
	}
	defer rows.Close()

	var fks []foreignKey
	for rows.Next() {
		var fk foreignKey
		if err := rows.Scan(&fk.table, &fk.column, &fk.referenced); err != nil {
			return nil, fmt.Errorf("failed to scan foreign key row: %w", err)
		}
		if !sqlutil.IsValidIdentifier(fk.table) || !sqlutil.IsValidIdentifier(fk.column) || !sqlutil.IsValidIdentifier(fk.referenced) {
			in.logger.Warnf("Skipping foreign key %s.%s -> %s: unsupported identifier", fk.table, fk.column, fk.referenced)
			continue
		}
		fks = append(fks, fk)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating foreign keys: %w", err)
	}
	return fks, nil
}
