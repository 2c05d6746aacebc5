package database

import (
	"database/sql"
	stdlog "log"

	"github.com/hugodemenez/deltalytix/backend/src/logger"
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
	}
	migrateTradesTable()

	createTableStatement := `
	CREATE TABLE IF NOT EXISTS trades (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		trade_id TEXT NOT NULL,
		user_id INTEGER NOT NULL,
		account_number TEXT NOT NULL,
		instrument TEXT NOT NULL,
		side TEXT NOT NULL,
		quantity REAL NOT NULL,
		entry_price TEXT,
		close_price TEXT,
		entry_date TEXT,
		close_date TEXT,
		pnl REAL,
		commission REAL,
		time_in_position INTEGER,
		entry_id TEXT,
		close_id TEXT,
		platform TEXT,
		created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
		UNIQUE(user_id, trade_id)
	);

	CREATE TABLE IF NOT EXISTS accounts (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		user_id INTEGER NOT NULL,
		number TEXT NOT NULL,
		starting_balance REAL NOT NULL,
		profit_target REAL NOT NULL DEFAULT 0,
		drawdown_threshold REAL NOT NULL DEFAULT 0,
		trailing_drawdown BOOLEAN NOT NULL DEFAULT FALSE,
		trailing_stop_profit REAL NOT NULL DEFAULT 0,
		consistency_percentage REAL NOT NULL DEFAULT 0,
		reset_date TEXT,
		created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
		updated_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
		UNIQUE(user_id, number)
	);

	CREATE TABLE IF NOT EXISTS payouts (
		id TEXT PRIMARY KEY,
		user_id INTEGER NOT NULL,
		account_number TEXT NOT NULL,
		date TEXT NOT NULL,
		amount REAL NOT NULL,
		status TEXT NOT NULL DEFAULT 'PENDING',
		created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
	);

	CREATE INDEX IF NOT EXISTS idx_trades_user_account ON trades(user_id, account_number);
	CREATE INDEX IF NOT EXISTS idx_payouts_user_account ON payouts(user_id, account_number);
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
	}
}

// migrateTradesTable adds columns introduced after the first release to
// pre-existing trades tables.
func migrateTradesTable() {
	var tableName string
	err := DB.QueryRow("SELECT name FROM sqlite_master WHERE type='table' AND name='trades'").Scan(&tableName)
	if err != nil {
		if err == sql.ErrNoRows {
			return // table will be created with the full schema
		}
		if logger.L != nil {
			logger.L.Error("Error checking for 'trades' table", "error", err)
		}
		return
	}

	rows, err := DB.Query("PRAGMA table_info(trades)")
	if err != nil {
		if logger.L != nil {
			logger.L.Error("Error querying table schema for 'trades'", "error", err)
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
				logger.L.Error("Error scanning column info for 'trades'", "error", err)
			}
			return
		}
		columnExists[name] = true
	}
	if err = rows.Err(); err != nil {
		if logger.L != nil {
			logger.L.Error("Error iterating over column info for 'trades'", "error", err)
		}
		return
	}

	if _, ok := columnExists["platform"]; !ok {
		if _, err := DB.Exec("ALTER TABLE trades ADD COLUMN platform TEXT"); err != nil {
			logger.L.Error("Error adding 'platform' column to 'trades' table", "error", err)
		} else {
			logger.L.Info("Added 'platform' column to 'trades' table")
		}
	}
	if _, ok := columnExists["time_in_position"]; !ok {
		if _, err := DB.Exec("ALTER TABLE trades ADD COLUMN time_in_position INTEGER DEFAULT 0"); err != nil {
			logger.L.Error("Error adding 'time_in_position' column to 'trades' table", "error", err)
		} else {
			logger.L.Info("Added 'time_in_position' column to 'trades' table")
		}
	}
}
