package database

import (
	"database/sql"
	stdlog "log"

	"github.com/username/fluxocaixa/backend/src/logger"
	_ "modernc.org/sqlite"
)

var DB *sql.DB

func InitDB(databasePath string) {
	db, err := sql.Open("sqlite", databasePath)
	if err != nil {
		stdlog.Fatalf("failed to open database at %s: %v", databasePath, err)
	}

	DB = db

	if logger.L != nil {
		logger.L.Info("Checking database migrations", "databasePath", databasePath)
	} else {
		stdlog.Println("Checking database migrations for:", databasePath)
	}
	migrateImportsTable()

	createTableStatement := `
	CREATE TABLE IF NOT EXISTS imports (
		id TEXT PRIMARY KEY,
		source_kind TEXT NOT NULL,
		label TEXT NOT NULL DEFAULT '',
		row_count INTEGER NOT NULL DEFAULT 0,
		created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
		deleted_at TIMESTAMP
	);

	CREATE TABLE IF NOT EXISTS companies (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		code TEXT NOT NULL,
		name TEXT NOT NULL,
		company_group TEXT NOT NULL DEFAULT ''
	);

	CREATE TABLE IF NOT EXISTS payables (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		import_id TEXT NOT NULL,
		status TEXT,
		business_unit TEXT,
		creditor TEXT,
		category TEXT,
		payment_date TEXT NOT NULL,
		amount TEXT,
		FOREIGN KEY(import_id) REFERENCES imports(id)
	);

	CREATE TABLE IF NOT EXISTS revenues (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		import_id TEXT NOT NULL,
		status TEXT,
		business_unit TEXT,
		category TEXT,
		issue_date TEXT NOT NULL,
		amount TEXT,
		FOREIGN KEY(import_id) REFERENCES imports(id)
	);

	CREATE TABLE IF NOT EXISTS bank_transactions (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		import_id TEXT NOT NULL,
		business_unit TEXT,
		bank TEXT,
		category TEXT,
		transaction_date TEXT NOT NULL,
		amount TEXT,
		FOREIGN KEY(import_id) REFERENCES imports(id)
	);

	CREATE TABLE IF NOT EXISTS forecast_entries (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		import_id TEXT NOT NULL,
		status TEXT,
		business_unit TEXT,
		category TEXT,
		due_date TEXT NOT NULL,
		amount TEXT,
		FOREIGN KEY(import_id) REFERENCES imports(id)
	);

	CREATE TABLE IF NOT EXISTS balance_snapshots (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		import_id TEXT NOT NULL,
		business_unit TEXT,
		bank TEXT,
		balance_date TEXT NOT NULL,
		balance TEXT,
		FOREIGN KEY(import_id) REFERENCES imports(id)
	);

	CREATE INDEX IF NOT EXISTS idx_payables_date ON payables(payment_date);
	CREATE INDEX IF NOT EXISTS idx_revenues_date ON revenues(issue_date);
	CREATE INDEX IF NOT EXISTS idx_bank_transactions_date ON bank_transactions(transaction_date);
	CREATE INDEX IF NOT EXISTS idx_forecast_entries_date ON forecast_entries(due_date);
	CREATE INDEX IF NOT EXISTS idx_balance_snapshots_date ON balance_snapshots(balance_date);
	`

	_, err = DB.Exec(createTableStatement)
	if err != nil {
		if logger.L != nil {
			logger.L.Error("failed to create tables", "error", err)
		}
		stdlog.Fatalf("failed to create tables: %v", err)
	}
	if logger.L != nil {
		logger.L.Info("Database tables ensured/created.")
	} else {
		stdlog.Println("Database tables ensured/created.")
	}
}

// migrateImportsTable adds columns introduced after the first schema version.
func migrateImportsTable() {
	var tableName string
	err := DB.QueryRow("SELECT name FROM sqlite_master WHERE type='table' AND name='imports'").Scan(&tableName)
	if err != nil {
		if err == sql.ErrNoRows {
			if logger.L != nil {
				logger.L.Info("'imports' table does not exist, no migration needed as table will be created.")
			} else {
				stdlog.Println("'imports' table does not exist, no migration needed as table will be created.")
			}
			return
		}
		if logger.L != nil {
			logger.L.Error("Error checking for 'imports' table", "error", err)
		} else {
			stdlog.Printf("Error checking for 'imports' table: %v", err)
		}
		return
	}

	rows, err := DB.Query("PRAGMA table_info(imports)")
	if err != nil {
		if logger.L != nil {
			logger.L.Error("Error querying table schema for 'imports'", "error", err)
		} else {
			stdlog.Printf("Error querying table schema for 'imports': %v", err)
		}
		return
	}
	defer rows.Close()

	columnExists := make(map[string]bool)
	for rows.Next() {
		var cid, pk int
		var name, dataType string
		var notnullVal int
		var dfltValue interface{}

		if err := rows.Scan(&cid, &name, &dataType, &notnullVal, &dfltValue, &pk); err != nil {
			if logger.L != nil {
				logger.L.Error("Error scanning column info for 'imports'", "error", err)
			} else {
				stdlog.Printf("Error scanning column info for 'imports': %v", err)
			}
			return
		}
		columnExists[name] = true
	}
	if err = rows.Err(); err != nil {
		if logger.L != nil {
			logger.L.Error("Error iterating over column info for 'imports'", "error", err)
		} else {
			stdlog.Printf("Error iterating over column info for 'imports': %v", err)
		}
		return
	}

	if _, ok := columnExists["label"]; !ok {
		_, err := DB.Exec("ALTER TABLE imports ADD COLUMN label TEXT NOT NULL DEFAULT ''")
		if err != nil {
			logger.L.Error("Error adding 'label' column to 'imports' table", "error", err)
		} else {
			logger.L.Info("Added 'label' column to 'imports' table")
		}
	}

	if _, ok := columnExists["row_count"]; !ok {
		_, err := DB.Exec("ALTER TABLE imports ADD COLUMN row_count INTEGER NOT NULL DEFAULT 0")
		if err != nil {
			logger.L.Error("Error adding 'row_count' column to 'imports' table", "error", err)
		} else {
			logger.L.Info("Added 'row_count' column to 'imports' table")
		}
	}

	if _, ok := columnExists["deleted_at"]; !ok {
		_, err := DB.Exec("ALTER TABLE imports ADD COLUMN deleted_at TIMESTAMP")
		if err != nil {
			logger.L.Error("Error adding 'deleted_at' column to 'imports' table", "error", err)
		} else {
			logger.L.Info("Added 'deleted_at' column to 'imports' table")
		}
	}
}
