package db

import (
	"context"
	"database/sql"
	"fmt"
)

var schema = []string{
	`CREATE TABLE IF NOT EXISTS vehicles (
	id BIGINT AUTO_INCREMENT PRIMARY KEY,
	vehicle_code VARCHAR(50) NOT NULL,
	plate_number VARCHAR(50) NOT NULL DEFAULT '',
	driver_id BIGINT NOT NULL DEFAULT 0,
	paired TINYINT(1) NOT NULL DEFAULT 0,
	active_route_id BIGINT NULL,
	seat_layout TEXT NULL,
	UNIQUE KEY uniq_vehicle_code (vehicle_code),
	KEY idx_driver (driver_id)
) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4 COLLATE=utf8mb4_unicode_ci`,
	`CREATE TABLE IF NOT EXISTS vehicle_seats (
	id BIGINT AUTO_INCREMENT PRIMARY KEY,
	vehicle_id BIGINT NOT NULL,
	side VARCHAR(5) NOT NULL,
	number INT NOT NULL,
	status VARCHAR(20) NOT NULL DEFAULT 'available',
	passenger_name VARCHAR(255) NOT NULL DEFAULT '',
	passenger_phone VARCHAR(50) NOT NULL DEFAULT '',
	UNIQUE KEY uniq_vehicle_seat (vehicle_id, side, number),
	KEY idx_vehicle (vehicle_id)
) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4 COLLATE=utf8mb4_unicode_ci`,
	`CREATE TABLE IF NOT EXISTS routes (
	id BIGINT AUTO_INCREMENT PRIMARY KEY,
	name VARCHAR(255) NOT NULL,
	origin_name VARCHAR(255) NOT NULL DEFAULT '',
	origin_lat DOUBLE NOT NULL,
	origin_lng DOUBLE NOT NULL,
	destination_name VARCHAR(255) NOT NULL DEFAULT '',
	destination_lat DOUBLE NOT NULL,
	destination_lng DOUBLE NOT NULL,
	waypoints TEXT NULL
) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4 COLLATE=utf8mb4_unicode_ci`,
	`CREATE TABLE IF NOT EXISTS vehicle_routes (
	vehicle_id BIGINT NOT NULL,
	route_id BIGINT NOT NULL,
	PRIMARY KEY (vehicle_id, route_id)
) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4 COLLATE=utf8mb4_unicode_ci`,
	`CREATE TABLE IF NOT EXISTS schedules (
	id BIGINT AUTO_INCREMENT PRIMARY KEY,
	vehicle_id BIGINT NOT NULL,
	route_id BIGINT NOT NULL,
	depart_at DATETIME NOT NULL,
	price BIGINT NOT NULL DEFAULT 0,
	KEY idx_vehicle_depart (vehicle_id, depart_at),
	KEY idx_depart (depart_at)
) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4 COLLATE=utf8mb4_unicode_ci`,
	`CREATE TABLE IF NOT EXISTS bookings (
	id BIGINT AUTO_INCREMENT PRIMARY KEY,
	schedule_id BIGINT NOT NULL,
	user_id BIGINT NULL,
	passenger_name VARCHAR(255) NOT NULL,
	passenger_phone VARCHAR(50) NOT NULL,
	fare BIGINT NOT NULL,
	payment_status VARCHAR(20) NOT NULL DEFAULT 'unpaid',
	payment_method VARCHAR(50) NOT NULL DEFAULT '',
	guest TINYINT(1) NOT NULL DEFAULT 0,
	created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
	KEY idx_schedule (schedule_id)
) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4 COLLATE=utf8mb4_unicode_ci`,
	`CREATE TABLE IF NOT EXISTS booking_seats (
	id BIGINT AUTO_INCREMENT PRIMARY KEY,
	booking_id BIGINT NOT NULL,
	schedule_id BIGINT NOT NULL,
	seat_code VARCHAR(10) NOT NULL,
	UNIQUE KEY uniq_schedule_seat (schedule_id, seat_code),
	KEY idx_booking (booking_id)
) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4 COLLATE=utf8mb4_unicode_ci`,
	`CREATE TABLE IF NOT EXISTS trip_sessions (
	id CHAR(36) PRIMARY KEY,
	vehicle_id BIGINT NOT NULL,
	route_id BIGINT NOT NULL,
	schedule_id BIGINT NULL,
	driver_id BIGINT NOT NULL,
	start_time DATETIME NOT NULL,
	end_time DATETIME NULL,
	start_lat DOUBLE NOT NULL,
	start_lng DOUBLE NOT NULL,
	end_lat DOUBLE NULL,
	end_lng DOUBLE NULL,
	forced_end TINYINT(1) NOT NULL DEFAULT 0,
	open_vehicle_id BIGINT NULL,
	UNIQUE KEY uniq_open_vehicle (open_vehicle_id),
	KEY idx_vehicle (vehicle_id)
) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4 COLLATE=utf8mb4_unicode_ci`,
	`CREATE TABLE IF NOT EXISTS wallets (
	user_id BIGINT PRIMARY KEY,
	balance BIGINT NOT NULL DEFAULT 0
) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4 COLLATE=utf8mb4_unicode_ci`,
	`CREATE TABLE IF NOT EXISTS settings (
	setting_key VARCHAR(100) PRIMARY KEY,
	setting_value TEXT NOT NULL
) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4 COLLATE=utf8mb4_unicode_ci`,
	`CREATE TABLE IF NOT EXISTS location_samples (
	id BIGINT AUTO_INCREMENT PRIMARY KEY,
	trip_id CHAR(36) NOT NULL,
	vehicle_id BIGINT NOT NULL,
	lat DOUBLE NOT NULL,
	lng DOUBLE NOT NULL,
	recorded_at DATETIME NOT NULL,
	KEY idx_trip (trip_id, recorded_at)
) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4 COLLATE=utf8mb4_unicode_ci`,
}

// EnsureSchema creates the tables used by the core when they are missing.
func EnsureSchema(ctx context.Context, db *sql.DB) error {
	if db == nil {
		return fmt.Errorf("db tidak tersedia")
	}
	for _, ddl := range schema {
		if _, err := db.ExecContext(ctx, ddl); err != nil {
			return err
		}
	}
	return nil
}
