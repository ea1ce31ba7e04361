// Command migrate creates the BukuKu schema and, with -seed, loads the
// demo catalog and accounts. It is idempotent: tables are created only
// if missing and seed rows are skipped when the table already has data.
package main

import (
	"database/sql"
	"flag"
	"log"

	"github.com/joho/godotenv"
	"github.com/sapasaja/bukuku-api/internal/database"
	"github.com/sapasaja/bukuku-api/internal/models"
)

var ddl = []string{
	`CREATE TABLE IF NOT EXISTS users (
		id BIGINT AUTO_INCREMENT PRIMARY KEY,
		name VARCHAR(255) NOT NULL,
		email VARCHAR(255) NOT NULL UNIQUE,
		password_hash VARCHAR(255) NOT NULL,
		phone VARCHAR(50) NULL,
		address TEXT NULL,
		role ENUM('admin', 'customer') NOT NULL DEFAULT 'customer',
		status ENUM('active', 'inactive') NOT NULL DEFAULT 'active',
		email_verified BOOLEAN NOT NULL DEFAULT FALSE,
		created_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
		updated_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP ON UPDATE CURRENT_TIMESTAMP
	) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4`,

	`CREATE TABLE IF NOT EXISTS categories (
		id BIGINT AUTO_INCREMENT PRIMARY KEY,
		name VARCHAR(255) NOT NULL,
		slug VARCHAR(255) NOT NULL UNIQUE,
		description TEXT NULL,
		created_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
		updated_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP ON UPDATE CURRENT_TIMESTAMP
	) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4`,

	`CREATE TABLE IF NOT EXISTS books (
		id BIGINT AUTO_INCREMENT PRIMARY KEY,
		title VARCHAR(255) NOT NULL,
		author VARCHAR(255) NOT NULL,
		description TEXT,
		isbn VARCHAR(50) NOT NULL DEFAULT '',
		price DECIMAL(12,2) NOT NULL,
		stock INT NOT NULL DEFAULT 0,
		cover_image VARCHAR(500) NOT NULL DEFAULT '',
		publish_year INT NOT NULL DEFAULT 0,
		rating DECIMAL(3,1) NOT NULL DEFAULT 0,
		reviews_count INT NOT NULL DEFAULT 0,
		category_id BIGINT NOT NULL,
		featured BOOLEAN NOT NULL DEFAULT FALSE,
		bestseller BOOLEAN NOT NULL DEFAULT FALSE,
		new_arrival BOOLEAN NOT NULL DEFAULT FALSE,
		status ENUM('active', 'inactive') NOT NULL DEFAULT 'active',
		created_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
		updated_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP ON UPDATE CURRENT_TIMESTAMP,
		FOREIGN KEY (category_id) REFERENCES categories(id)
	) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4`,

	`CREATE TABLE IF NOT EXISTS carts (
		id BIGINT AUTO_INCREMENT PRIMARY KEY,
		user_id BIGINT NOT NULL UNIQUE,
		created_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
		updated_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP ON UPDATE CURRENT_TIMESTAMP,
		FOREIGN KEY (user_id) REFERENCES users(id) ON DELETE CASCADE
	) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4`,

	`CREATE TABLE IF NOT EXISTS cart_items (
		id BIGINT AUTO_INCREMENT PRIMARY KEY,
		cart_id BIGINT NOT NULL,
		book_id BIGINT NOT NULL,
		quantity INT NOT NULL,
		price_at_add DECIMAL(12,2) NOT NULL,
		created_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
		updated_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP ON UPDATE CURRENT_TIMESTAMP,
		UNIQUE KEY uq_cart_book (cart_id, book_id),
		FOREIGN KEY (cart_id) REFERENCES carts(id) ON DELETE CASCADE,
		FOREIGN KEY (book_id) REFERENCES books(id)
	) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4`,

	`CREATE TABLE IF NOT EXISTS orders (
		id BIGINT AUTO_INCREMENT PRIMARY KEY,
		order_number VARCHAR(50) NOT NULL UNIQUE,
		user_id BIGINT NOT NULL,
		total_amount DECIMAL(12,2) NOT NULL,
		status ENUM('pending', 'processing', 'shipped', 'delivered', 'cancelled') NOT NULL DEFAULT 'pending',
		payment_status ENUM('pending', 'paid', 'failed', 'refunded') NOT NULL DEFAULT 'pending',
		shipping_name VARCHAR(255) NOT NULL,
		shipping_phone VARCHAR(50) NOT NULL,
		shipping_address TEXT NOT NULL,
		shipping_city VARCHAR(255) NOT NULL,
		shipping_postal_code VARCHAR(20) NOT NULL,
		shipping_cost DECIMAL(12,2) NOT NULL DEFAULT 0,
		tracking_number VARCHAR(100) NULL,
		shipping_notes TEXT NULL,
		created_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
		updated_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP ON UPDATE CURRENT_TIMESTAMP,
		FOREIGN KEY (user_id) REFERENCES users(id)
	) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4`,

	`CREATE TABLE IF NOT EXISTS order_items (
		id BIGINT AUTO_INCREMENT PRIMARY KEY,
		order_id BIGINT NOT NULL,
		book_id BIGINT NOT NULL,
		book_title VARCHAR(255) NOT NULL,
		quantity INT NOT NULL,
		unit_price DECIMAL(12,2) NOT NULL,
		line_total DECIMAL(12,2) NOT NULL,
		created_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
		FOREIGN KEY (order_id) REFERENCES orders(id) ON DELETE CASCADE,
		FOREIGN KEY (book_id) REFERENCES books(id)
	) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4`,

	`CREATE TABLE IF NOT EXISTS notifications (
		id BIGINT AUTO_INCREMENT PRIMARY KEY,
		user_id BIGINT NOT NULL,
		message TEXT NOT NULL,
		link VARCHAR(500) NULL,
		is_read BOOLEAN NOT NULL DEFAULT FALSE,
		created_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
		FOREIGN KEY (user_id) REFERENCES users(id) ON DELETE CASCADE
	) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4`,
}

func main() {
	seed := flag.Bool("seed", false, "load the demo accounts and catalog after migrating")
	flag.Parse()

	if err := godotenv.Load(); err != nil {
		log.Println("WARNING: Could not find or load .env file. Relying on system environment variables.")
	}

	db, err := database.OpenDB()
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer db.Close()

	for _, stmt := range ddl {
		if _, err := db.Exec(stmt); err != nil {
			log.Fatalf("Migration failed: %v", err)
		}
	}
	log.Println("Schema is up to date.")

	if *seed {
		if err := seedData(db); err != nil {
			log.Fatalf("Seeding failed: %v", err)
		}
		log.Println("Seed data loaded.")
	}
}

// seedData loads the demo accounts, categories and catalog. Each table
// is only touched when it is still empty.
func seedData(db *sql.DB) error {
	var count int
	if err := db.QueryRow("SELECT COUNT(*) FROM users").Scan(&count); err != nil {
		return err
	}
	if count == 0 {
		var pw models.Password
		if err := pw.Set("password"); err != nil {
			return err
		}
		userQuery := `
			INSERT INTO users (name, email, password_hash, phone, role, status, email_verified)
			VALUES (?, ?, ?, ?, ?, 'active', 1)`
		if _, err := db.Exec(userQuery, "Admin BukuKu", "admin@bukuku.com", pw.Hash, "081234567890", "admin"); err != nil {
			return err
		}
		if _, err := db.Exec(userQuery, "Budi Santoso", "customer@bukuku.com", pw.Hash, "089876543210", "customer"); err != nil {
			return err
		}
	}

	if err := db.QueryRow("SELECT COUNT(*) FROM categories").Scan(&count); err != nil {
		return err
	}
	if count == 0 {
		categories := []struct{ name, slug, description string }{
			{"Fiksi", "fiksi", "Novel dan cerita fiksi"},
			{"Non-Fiksi", "non-fiksi", "Buku pengetahuan umum"},
			{"Pengembangan Diri", "pengembangan-diri", "Motivasi dan produktivitas"},
			{"Bisnis", "bisnis", "Bisnis dan keuangan"},
			{"Teknologi", "teknologi", "Komputer dan pemrograman"},
			{"Biografi", "biografi", "Kisah hidup tokoh"},
		}
		for _, cat := range categories {
			_, err := db.Exec(
				"INSERT INTO categories (name, slug, description) VALUES (?, ?, ?)",
				cat.name, cat.slug, cat.description)
			if err != nil {
				return err
			}
		}
	}

	if err := db.QueryRow("SELECT COUNT(*) FROM books").Scan(&count); err != nil {
		return err
	}
	if count == 0 {
		books := []struct {
			title, author, description, isbn string
			price                            float64
			stock, publishYear               int
			categorySlug                     string
			featured, bestseller, newArrival bool
		}{
			{"Laskar Pelangi", "Andrea Hirata", "Kisah sepuluh anak Belitung yang memperjuangkan pendidikan.", "9789793062792", 85000, 25, 2005, "fiksi", true, true, false},
			{"Bumi Manusia", "Pramoedya Ananta Toer", "Roman sejarah era kolonial Hindia Belanda.", "9789799731240", 95000, 18, 1980, "fiksi", true, false, false},
			{"Atomic Habits", "James Clear", "Cara mudah membangun kebiasaan baik dan menghilangkan kebiasaan buruk.", "9786020633176", 120000, 40, 2019, "pengembangan-diri", true, true, true},
			{"Filosofi Teras", "Henry Manampiring", "Filsafat Stoa untuk hidup yang lebih tenang.", "9786024125189", 78000, 30, 2018, "pengembangan-diri", false, true, false},
			{"Rich Dad Poor Dad", "Robert T. Kiyosaki", "Pelajaran tentang uang dari dua ayah.", "9786020333174", 98000, 22, 2017, "bisnis", false, false, true},
			{"Clean Code", "Robert C. Martin", "Panduan menulis kode yang bersih dan mudah dirawat.", "9780132350884", 250000, 12, 2008, "teknologi", false, false, true},
		}
		bookQuery := `
			INSERT INTO books (title, author, description, isbn, price, stock, publish_year,
			                   category_id, featured, bestseller, new_arrival, status)
			SELECT ?, ?, ?, ?, ?, ?, ?, id, ?, ?, ?, 'active'
			FROM categories WHERE slug = ?`
		for _, b := range books {
			_, err := db.Exec(bookQuery,
				b.title, b.author, b.description, b.isbn, b.price, b.stock, b.publishYear,
				b.featured, b.bestseller, b.newArrival, b.categorySlug)
			if err != nil {
				return err
			}
		}
	}

	return nil
}
