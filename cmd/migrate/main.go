package main

import (
	"errors"
	"flag"
	"log"

	"github.com/golang-migrate/migrate/v4"
	_ "github.com/golang-migrate/migrate/v4/database/sqlite3"
	_ "github.com/golang-migrate/migrate/v4/source/file"
)

func main() {
	path := flag.String("path", "mess", "migration set to apply (mess or auth)")
	db := flag.String("db", "", "database file, defaults to internal/databases/<path>.db")
	down := flag.Bool("down", false, "roll every migration back instead")
	flag.Parse()

	if *path != "mess" && *path != "auth" {
		log.Fatalf("unknown migration set %q", *path)
	}
	if *db == "" {
		*db = "internal/databases/" + *path + ".db"
	}

	m, err := migrate.New(
		"file://internal/databases/migrations/"+*path,
		"sqlite3://"+*db,
	)
	if err != nil {
		log.Fatal(err)
	}
	defer m.Close()

	if *down {
		err = m.Down()
	} else {
		err = m.Up()
	}
	if err != nil && !errors.Is(err, migrate.ErrNoChange) {
		log.Fatal(err)
	}
	log.Println("Database migration complete for the:", *path, "path")
}

/*
This project is the backend API for the hostel mess meal tracker. Residents mark the meals they skip, managers see the counts.
Mess API Copyright (C) 2025 Mess API contributors
    This program is free software: you can redistribute it and/or modify
    it under the terms of the GNU General Public License as published by
    the Free Software Foundation, either version 3 of the License, or
    (at your option) any later version.

    This program is distributed in the hope that it will be useful,
    but WITHOUT ANY WARRANTY; without even the implied warranty of
    MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
    GNU General Public License for more details.

    You should have received a copy of the GNU General Public License
    along with this program.  If not, see <https://www.gnu.org/licenses/>.
*/
