package cmd

import (
	"bytes"
	"database/sql"
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"github.com/dustin/go-humanize"
	"github.com/iksnae/ragchat/internal"
	"github.com/spf13/cobra"
)

var (
	inspectFormat     string
	inspectSampleRows int
	inspectKey        string
)

// inspectCmd represents the inspect command
var inspectCmd = &cobra.Command{
	Use:   "inspect [database-path]",
	Short: "Inspect the local database",
	Long: `Inspect the local state database.

This command provides detailed information about:
  • Stored keys and their sizes
  • Database schema (tables, columns, types)
  • Sample rows from each table

Examples:
  ragchat inspect                          # Inspect the default database
  ragchat inspect --storage ./state.db     # Inspect a specific database
  ragchat inspect --key rag.threads        # Pretty-print one value
  ragchat inspect --format json            # Keys as JSON`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		var store *internal.Store
		if len(args) > 0 {
			s, err := internal.OpenStore(args[0])
			if err != nil {
				return fmt.Errorf("failed to open database: %w", err)
			}
			store = s
		} else {
			a, err := openApp()
			if err != nil {
				return err
			}
			store = a.store
		}
		defer func() { _ = store.Close() }()

		out := cmd.OutOrStdout()
		if inspectKey != "" {
			return printValue(out, store, inspectKey)
		}

		keys, err := store.Keys(internal.KeyPrefix)
		if err != nil {
			return err
		}
		if inspectFormat == "json" {
			enc := json.NewEncoder(out)
			enc.SetIndent("", "  ")
			return enc.Encode(keys)
		}

		fmt.Fprintf(out, "📋 Database: %s\n", store.Path())
		printKeys(out, keys)
		fmt.Fprintln(out)

		if store.Path() == ":memory:" {
			return nil
		}
		db, err := internal.OpenDatabase(store.Path())
		if err != nil {
			return fmt.Errorf("failed to open database: %w", err)
		}
		defer func() { _ = db.Close() }()
		return inspectDatabase(out, db)
	},
}

func printKeys(out io.Writer, keys []internal.KeyInfo) {
	if len(keys) == 0 {
		fmt.Fprintln(out, "⚠️  No keys stored yet")
		return
	}
	total := 0
	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	for _, k := range keys {
		total += k.Size
		_, _ = fmt.Fprintf(w, "  %s\t%s\n", k.Key, humanize.Bytes(uint64(k.Size)))
	}
	_ = w.Flush()
	fmt.Fprintf(out, "📊 %d key(s), %s\n", len(keys), humanize.Bytes(uint64(total)))
}

func printValue(out io.Writer, store *internal.Store, key string) error {
	raw, ok := store.Get(key)
	if !ok {
		return &internal.NotFoundError{Kind: "key", ID: key}
	}
	var pretty bytes.Buffer
	if err := json.Indent(&pretty, []byte(raw), "", "  "); err != nil {
		fmt.Fprintln(out, raw)
		return nil
	}
	fmt.Fprintln(out, pretty.String())
	return nil
}

func inspectDatabase(out io.Writer, db *sql.DB) error {
	tables, err := getTables(db)
	if err != nil {
		return fmt.Errorf("failed to get tables: %w", err)
	}

	if len(tables) == 0 {
		fmt.Fprintln(out, "⚠️  No tables found in database")
		return nil
	}

	fmt.Fprintf(out, "📊 Found %d table(s)\n\n", len(tables))
	for _, tableName := range tables {
		if err := inspectTable(out, db, tableName); err != nil {
			fmt.Fprintf(out, "⚠️  Error inspecting table %s: %v\n", tableName, err)
			continue
		}
		fmt.Fprintln(out)
	}
	return nil
}

func getTables(db *sql.DB) ([]string, error) {
	rows, err := db.Query(`
		SELECT name FROM sqlite_master
		WHERE type='table' AND name NOT LIKE 'sqlite_%'
		ORDER BY name
	`)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	var tables []string
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			continue
		}
		tables = append(tables, name)
	}
	return tables, rows.Err()
}

func inspectTable(out io.Writer, db *sql.DB, tableName string) error {
	fmt.Fprintf(out, "━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━\n")
	fmt.Fprintf(out, "📦 Table: %s\n", tableName)
	fmt.Fprintf(out, "━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━\n")

	var rowCount int
	if err := db.QueryRow(fmt.Sprintf("SELECT COUNT(*) FROM %q", tableName)).Scan(&rowCount); err != nil {
		return fmt.Errorf("failed to get row count: %w", err)
	}
	fmt.Fprintf(out, "📊 Rows: %d\n\n", rowCount)

	columns, err := getTableSchema(db, tableName)
	if err != nil {
		return fmt.Errorf("failed to get schema: %w", err)
	}

	fmt.Fprintf(out, "📐 Schema:\n")
	for _, col := range columns {
		pk := ""
		if col.PrimaryKey {
			pk = " [PRIMARY KEY]"
		}
		notNull := ""
		if col.NotNull {
			notNull = " NOT NULL"
		}
		fmt.Fprintf(out, "  • %s: %s%s%s\n", col.Name, col.Type, notNull, pk)
	}
	fmt.Fprintln(out)

	if rowCount > 0 && inspectSampleRows > 0 {
		if err := showSampleData(out, db, tableName, columns, inspectSampleRows); err != nil {
			fmt.Fprintf(out, "⚠️  Error showing sample data: %v\n", err)
		}
	}
	return nil
}

type ColumnInfo struct {
	Name       string
	Type       string
	NotNull    bool
	PrimaryKey bool
}

func getTableSchema(db *sql.DB, tableName string) ([]ColumnInfo, error) {
	rows, err := db.Query(fmt.Sprintf("PRAGMA table_info(%q)", tableName))
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	var columns []ColumnInfo
	for rows.Next() {
		var col ColumnInfo
		var cid int
		var notNull, pk int
		var defaultValue sql.NullString

		if err := rows.Scan(&cid, &col.Name, &col.Type, &notNull, &defaultValue, &pk); err != nil {
			continue
		}
		col.NotNull = notNull == 1
		col.PrimaryKey = pk == 1
		columns = append(columns, col)
	}
	return columns, rows.Err()
}

func showSampleData(out io.Writer, db *sql.DB, tableName string, columns []ColumnInfo, limit int) error {
	if len(columns) == 0 {
		return nil
	}

	colNames := make([]string, len(columns))
	for i, col := range columns {
		colNames[i] = fmt.Sprintf("%q", col.Name)
	}

	query := fmt.Sprintf("SELECT %s FROM %q LIMIT %d", strings.Join(colNames, ", "), tableName, limit)
	rows, err := db.Query(query)
	if err != nil {
		return err
	}
	defer func() { _ = rows.Close() }()

	fmt.Fprintf(out, "📄 Sample Data (first %d rows):\n", limit)
	rowNum := 0
	for rows.Next() {
		rowNum++
		values := make([]interface{}, len(columns))
		valuePtrs := make([]interface{}, len(columns))
		for i := range values {
			valuePtrs[i] = &values[i]
		}

		if err := rows.Scan(valuePtrs...); err != nil {
			fmt.Fprintf(out, "  ⚠️  Row %d: error scanning: %v\n", rowNum, err)
			continue
		}

		fmt.Fprintf(out, "\n  Row %d:\n", rowNum)
		for i, col := range columns {
			fmt.Fprintf(out, "    %s: %s\n", col.Name, sampleValue(values[i]))
		}
	}

	return rows.Err()
}

// sampleValue renders a cell on one line, cut at 200 bytes. Values holding
// attachment data URLs are summarized by size.
func sampleValue(val interface{}) string {
	if val == nil {
		return "<NULL>"
	}
	var s string
	switch v := val.(type) {
	case []byte:
		s = string(v)
	default:
		s = fmt.Sprintf("%v", v)
	}
	if strings.Contains(s, `"dataUrl":"data:`) {
		return fmt.Sprintf("(%s, contains inline attachments)", humanize.Bytes(uint64(len(s))))
	}
	if len(s) > 200 {
		s = s[:200] + "..."
	}
	if strings.Contains(s, "\n") {
		s = strings.Split(s, "\n")[0] + "..."
	}
	return s
}

func init() {
	rootCmd.AddCommand(inspectCmd)
	inspectCmd.Flags().StringVar(&inspectFormat, "format", "text", "Output format (text, json)")
	inspectCmd.Flags().IntVar(&inspectSampleRows, "sample", 3, "Number of sample rows to show")
	inspectCmd.Flags().StringVar(&inspectKey, "key", "", "Print the value stored under this key")
}
