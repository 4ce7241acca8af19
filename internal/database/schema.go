package database

// Schema definition and seed data for the record store. The DDL is
// owned by the storectl CLI; the server consumes the tables as a
// fixed schema. records.rating arrived in a later migration and is
// nullable, so older dumps without the column stay loadable.

import (
	"context"
	"database/sql"
	"fmt"

	"golang.org/x/crypto/bcrypt"
)

// Tables lists every table in dependency order (parents first).
// Drops run over the reversed list so foreign keys never block.
var Tables = []string{
	"musicians",
	"ensembles",
	"ensemble_members",
	"compositions",
	"performances",
	"companies",
	"records",
	"record_tracks",
	"users",
	"refresh_tokens",
	"purchases",
	"cart",
}

var ddl = []string{
	`CREATE TABLE IF NOT EXISTS musicians (
		id BIGINT UNSIGNED AUTO_INCREMENT PRIMARY KEY,
		name VARCHAR(255) NOT NULL,
		role VARCHAR(64) NOT NULL,
		instruments VARCHAR(255) NULL,
		birth_year INT NULL,
		country VARCHAR(128) NOT NULL DEFAULT ''
	) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4`,

	`CREATE TABLE IF NOT EXISTS ensembles (
		id BIGINT UNSIGNED AUTO_INCREMENT PRIMARY KEY,
		name VARCHAR(255) NOT NULL,
		type VARCHAR(64) NOT NULL,
		founded_year INT NULL,
		country VARCHAR(128) NOT NULL DEFAULT '',
		description TEXT
	) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4`,

	`CREATE TABLE IF NOT EXISTS ensemble_members (
		id BIGINT UNSIGNED AUTO_INCREMENT PRIMARY KEY,
		ensemble_id BIGINT UNSIGNED NOT NULL,
		musician_id BIGINT UNSIGNED NOT NULL,
		role_in_ensemble VARCHAR(128) NULL,
		joined_year INT NULL,
		FOREIGN KEY (ensemble_id) REFERENCES ensembles (id),
		FOREIGN KEY (musician_id) REFERENCES musicians (id)
	) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4`,

	`CREATE TABLE IF NOT EXISTS compositions (
		id BIGINT UNSIGNED AUTO_INCREMENT PRIMARY KEY,
		title VARCHAR(255) NOT NULL,
		composer_id BIGINT UNSIGNED NULL,
		genre VARCHAR(64) NULL,
		year_composed INT NULL,
		duration_minutes INT NULL,
		FOREIGN KEY (composer_id) REFERENCES musicians (id)
	) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4`,

	`CREATE TABLE IF NOT EXISTS performances (
		id BIGINT UNSIGNED AUTO_INCREMENT PRIMARY KEY,
		composition_id BIGINT UNSIGNED NOT NULL,
		ensemble_id BIGINT UNSIGNED NOT NULL,
		conductor_id BIGINT UNSIGNED NULL,
		recording_date DATE NULL,
		venue VARCHAR(255) NULL,
		FOREIGN KEY (composition_id) REFERENCES compositions (id),
		FOREIGN KEY (ensemble_id) REFERENCES ensembles (id),
		FOREIGN KEY (conductor_id) REFERENCES musicians (id)
	) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4`,

	`CREATE TABLE IF NOT EXISTS companies (
		id BIGINT UNSIGNED AUTO_INCREMENT PRIMARY KEY,
		name VARCHAR(255) NOT NULL,
		address VARCHAR(255) NULL,
		phone VARCHAR(64) NULL,
		email VARCHAR(255) NULL,
		is_wholesaler BOOLEAN NOT NULL DEFAULT FALSE
	) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4`,

	`CREATE TABLE IF NOT EXISTS records (
		id BIGINT UNSIGNED AUTO_INCREMENT PRIMARY KEY,
		catalog_number VARCHAR(64) NOT NULL UNIQUE,
		title VARCHAR(255) NOT NULL,
		company_id BIGINT UNSIGNED NOT NULL,
		release_date DATE NULL,
		wholesale_price DECIMAL(10,2) NOT NULL DEFAULT 0,
		retail_price DECIMAL(10,2) NOT NULL DEFAULT 0,
		current_stock INT NOT NULL DEFAULT 0,
		sold_last_year INT NOT NULL DEFAULT 0,
		sold_this_year INT NOT NULL DEFAULT 0,
		rating DECIMAL(3,2) NULL DEFAULT NULL,
		FOREIGN KEY (company_id) REFERENCES companies (id)
	) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4`,

	`CREATE TABLE IF NOT EXISTS record_tracks (
		id BIGINT UNSIGNED AUTO_INCREMENT PRIMARY KEY,
		record_id BIGINT UNSIGNED NOT NULL,
		performance_id BIGINT UNSIGNED NOT NULL,
		track_number INT NULL,
		FOREIGN KEY (record_id) REFERENCES records (id),
		FOREIGN KEY (performance_id) REFERENCES performances (id)
	) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4`,

	`CREATE TABLE IF NOT EXISTS users (
		id BIGINT UNSIGNED AUTO_INCREMENT PRIMARY KEY,
		username VARCHAR(128) NOT NULL UNIQUE,
		password_hash VARCHAR(255) NOT NULL,
		role VARCHAR(32) NOT NULL DEFAULT 'buyer',
		full_name VARCHAR(255) NOT NULL,
		email VARCHAR(255) NULL,
		phone VARCHAR(64) NULL,
		created_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP,
		is_active BOOLEAN NOT NULL DEFAULT TRUE
	) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4`,

	`CREATE TABLE IF NOT EXISTS refresh_tokens (
		id BIGINT UNSIGNED AUTO_INCREMENT PRIMARY KEY,
		user_id BIGINT UNSIGNED NOT NULL,
		token_hash CHAR(64) NOT NULL,
		expires_at DATETIME NOT NULL,
		revoked_at DATETIME NULL,
		created_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP,
		INDEX idx_refresh_tokens_hash (token_hash),
		FOREIGN KEY (user_id) REFERENCES users (id)
	) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4`,

	`CREATE TABLE IF NOT EXISTS purchases (
		id BIGINT UNSIGNED AUTO_INCREMENT PRIMARY KEY,
		user_id BIGINT UNSIGNED NOT NULL,
		record_id BIGINT UNSIGNED NOT NULL,
		quantity INT NOT NULL DEFAULT 1,
		price DECIMAL(10,2) NOT NULL,
		purchase_date TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP,
		seller_id BIGINT UNSIGNED NULL,
		FOREIGN KEY (user_id) REFERENCES users (id),
		FOREIGN KEY (record_id) REFERENCES records (id),
		FOREIGN KEY (seller_id) REFERENCES users (id)
	) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4`,

	`CREATE TABLE IF NOT EXISTS cart (
		id BIGINT UNSIGNED AUTO_INCREMENT PRIMARY KEY,
		user_id BIGINT UNSIGNED NOT NULL,
		record_id BIGINT UNSIGNED NOT NULL,
		quantity INT NOT NULL DEFAULT 1,
		added_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP,
		UNIQUE KEY uq_cart_user_record (user_id, record_id),
		FOREIGN KEY (user_id) REFERENCES users (id),
		FOREIGN KEY (record_id) REFERENCES records (id)
	) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4`,
}

// Init creates all tables if they do not exist and seeds the demo
// dataset the first time (when the users table is empty).
func Init(ctx context.Context, db *sql.DB) error {
	for _, q := range ddl {
		if _, err := db.ExecContext(ctx, q); err != nil {
			return fmt.Errorf("create table: %w", err)
		}
	}
	var users int64
	if err := db.QueryRowContext(ctx, "SELECT COUNT(*) FROM users").Scan(&users); err != nil {
		return fmt.Errorf("count users: %w", err)
	}
	if users > 0 {
		return nil
	}
	return seed(ctx, db)
}

// Recreate drops every table and rebuilds the schema with seed
// data. All data is lost.
func Recreate(ctx context.Context, db *sql.DB) error {
	for i := len(Tables) - 1; i >= 0; i-- {
		if _, err := db.ExecContext(ctx, "DROP TABLE IF EXISTS "+Tables[i]); err != nil {
			return fmt.Errorf("drop %s: %w", Tables[i], err)
		}
	}
	return Init(ctx, db)
}

// Status returns the row count for each table, in Tables order.
func Status(ctx context.Context, db *sql.DB) (map[string]int64, error) {
	out := make(map[string]int64, len(Tables))
	for _, t := range Tables {
		var n int64
		if err := db.QueryRowContext(ctx, "SELECT COUNT(*) FROM "+t).Scan(&n); err != nil {
			return nil, fmt.Errorf("count %s: %w", t, err)
		}
		out[t] = n
	}
	return out, nil
}

// seed inserts the demo dataset: three accounts (admin/admin123 as
// director, seller1/seller123, buyer1/buyer123) and a small
// classical/jazz catalog.
func seed(ctx context.Context, db *sql.DB) error {
	exec := func(q string, args ...interface{}) error {
		_, err := db.ExecContext(ctx, q, args...)
		return err
	}

	musicians := [][]interface{}{
		{"Ludwig van Beethoven", "composer", nil, 1770, "Germany"},
		{"Wolfgang Amadeus Mozart", "composer", nil, 1756, "Austria"},
		{"Johann Sebastian Bach", "composer", nil, 1685, "Germany"},
		{"Herbert von Karajan", "conductor", nil, 1908, "Austria"},
		{"Vladimir Horowitz", "performer", "piano", 1903, "Russia"},
		{"Itzhak Perlman", "performer", "violin", 1945, "Israel"},
		{"Yo-Yo Ma", "performer", "cello", 1955, "China"},
		{"Miles Davis", "performer", "trumpet", 1926, "USA"},
		{"John Coltrane", "performer", "saxophone", 1926, "USA"},
	}
	for _, m := range musicians {
		if err := exec("INSERT INTO musicians (name, role, instruments, birth_year, country) VALUES (?,?,?,?,?)", m...); err != nil {
			return fmt.Errorf("seed musicians: %w", err)
		}
	}

	ensembles := [][]interface{}{
		{"Vienna Philharmonic", "orchestra", 1842, "Austria", "One of the finest orchestras in the world"},
		{"Berlin Philharmonic", "orchestra", 1882, "Germany", "Famous German orchestra"},
		{"Borodin Quartet", "quartet", 1945, "Russia", "Russian string quartet"},
		{"Miles Davis Quintet", "quintet", 1955, "USA", "Legendary jazz quintet"},
		{"Oscar Peterson Trio", "trio", 1953, "Canada", "Jazz piano trio"},
	}
	for _, e := range ensembles {
		if err := exec("INSERT INTO ensembles (name, type, founded_year, country, description) VALUES (?,?,?,?,?)", e...); err != nil {
			return fmt.Errorf("seed ensembles: %w", err)
		}
	}

	companies := [][]interface{}{
		{"EMI Records", "London, UK", "+44-20-7795-7000", "info@emi.com", true},
		{"Deutsche Grammophon", "Hamburg, Germany", "+49-40-380-0", "info@dg.com", true},
		{"Sony Classical", "New York, USA", "+1-212-833-8000", "info@sonyclassical.com", true},
		{"Blue Note Records", "New York, USA", "+1-212-333-8000", "info@bluenote.com", true},
		{"Melodiya", "Moscow, Russia", "+7-495-123-4567", "info@melody.ru", true},
	}
	for _, c := range companies {
		if err := exec("INSERT INTO companies (name, address, phone, email, is_wholesaler) VALUES (?,?,?,?,?)", c...); err != nil {
			return fmt.Errorf("seed companies: %w", err)
		}
	}

	compositions := [][]interface{}{
		{"Symphony No. 9", 1, "classical", 1824, 65},
		{"Requiem", 2, "classical", 1791, 50},
		{"Brandenburg Concertos", 3, "baroque", 1721, 20},
		{"Piano Concerto No. 21", 2, "classical", 1785, 30},
		{"Kind of Blue", 8, "jazz", 1959, 45},
		{"A Love Supreme", 9, "jazz", 1965, 33},
	}
	for _, c := range compositions {
		if err := exec("INSERT INTO compositions (title, composer_id, genre, year_composed, duration_minutes) VALUES (?,?,?,?,?)", c...); err != nil {
			return fmt.Errorf("seed compositions: %w", err)
		}
	}

	performances := [][]interface{}{
		{1, 1, 4, "1985-01-15", "Vienna State Opera"},
		{2, 2, 4, "1991-03-20", "Berlin Philharmonie"},
		{3, 1, 4, "1988-06-10", "Musikverein Golden Hall"},
		{4, 2, 4, "1990-09-05", "Berlin Philharmonie"},
		{5, 4, nil, "1959-03-02", "Columbia Records Studio"},
		{6, 4, nil, "1964-12-09", "Impulse! Records Studio"},
	}
	for _, p := range performances {
		if err := exec("INSERT INTO performances (composition_id, ensemble_id, conductor_id, recording_date, venue) VALUES (?,?,?,?,?)", p...); err != nil {
			return fmt.Errorf("seed performances: %w", err)
		}
	}

	records := [][]interface{}{
		{"DG-427-123", "Beethoven: Symphony No. 9", 2, "1985-06-15", 15.50, 25.99, 50, 25, 15},
		{"DG-427-124", "Mozart: Requiem", 2, "1991-09-20", 18.00, 29.99, 30, 20, 12},
		{"EMI-567-890", "Bach: Brandenburg Concertos", 1, "1988-12-01", 22.00, 35.99, 25, 15, 8},
		{"EMI-567-891", "Mozart: Piano Concerto No. 21", 1, "1990-11-15", 16.50, 27.99, 40, 30, 18},
		{"BN-123-456", "Miles Davis: Kind of Blue", 4, "1959-08-17", 12.00, 19.99, 100, 80, 45},
		{"IMP-789-012", "John Coltrane: A Love Supreme", 4, "1965-02-01", 14.00, 22.99, 60, 40, 25},
	}
	for _, r := range records {
		if err := exec("INSERT INTO records (catalog_number, title, company_id, release_date, wholesale_price, retail_price, current_stock, sold_last_year, sold_this_year) VALUES (?,?,?,?,?,?,?,?,?)", r...); err != nil {
			return fmt.Errorf("seed records: %w", err)
		}
	}

	members := [][]interface{}{
		{1, 4, "principal conductor", 1955},
		{2, 4, "principal conductor", 1989},
		{3, 5, "first violin", 1945},
		{3, 6, "second violin", 1950},
		{4, 8, "band leader", 1955},
		{4, 9, "saxophone", 1960},
		{5, 5, "piano", 1953},
	}
	for _, m := range members {
		if err := exec("INSERT INTO ensemble_members (ensemble_id, musician_id, role_in_ensemble, joined_year) VALUES (?,?,?,?)", m...); err != nil {
			return fmt.Errorf("seed ensemble_members: %w", err)
		}
	}

	for i := 1; i <= 6; i++ {
		if err := exec("INSERT INTO record_tracks (record_id, performance_id, track_number) VALUES (?,?,1)", i, i); err != nil {
			return fmt.Errorf("seed record_tracks: %w", err)
		}
	}

	users := []struct {
		username, password, role, fullName, email, phone string
	}{
		{"admin", "admin123", "director", "Ivan Petrovich Admin", "admin@recordstore.example", "+7-495-123-4567"},
		{"seller1", "seller123", "seller", "Anna Sergeevna Seller", "seller@recordstore.example", "+7-495-123-4568"},
		{"buyer1", "buyer123", "buyer", "Mikhail Ivanovich Buyer", "buyer@recordstore.example", "+7-495-123-4569"},
	}
	for _, u := range users {
		hash, err := bcrypt.GenerateFromPassword([]byte(u.password), bcrypt.DefaultCost)
		if err != nil {
			return fmt.Errorf("hash seed password: %w", err)
		}
		if err := exec("INSERT INTO users (username, password_hash, role, full_name, email, phone) VALUES (?,?,?,?,?,?)",
			u.username, string(hash), u.role, u.fullName, u.email, u.phone); err != nil {
			return fmt.Errorf("seed users: %w", err)
		}
	}
	return nil
}
