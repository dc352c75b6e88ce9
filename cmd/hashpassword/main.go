package main

import (
	"bytes"
	"flag"
	"fmt"
	"os"
	"strings"

	"MessAPI/internal/auth"
	"MessAPI/internal/env"
	"MessAPI/internal/meals"

	"golang.org/x/term"
)

// Prints a bcrypt hash for the staff logins, ready to paste into .env
func main() {
	role := flag.String("role", "manager", "account the hash is for (manager or superuser)")
	flag.Parse()

	var key string
	switch *role {
	case string(auth.RoleManager):
		key = env.EnvManagerPasswordHash
	case string(auth.RoleSuperuser):
		key = env.EnvSuperuserPasswordHash
	default:
		fail("unknown role %q", *role)
	}

	password := prompt("Password: ")
	if rules := meals.ValidatePassword(string(password)); len(rules) > 0 {
		fail("%s", strings.Join(meals.Messages(rules), ", "))
	}
	if !bytes.Equal(password, prompt("Confirm password: ")) {
		fail("%s", meals.RulePasswordMismatch.Message())
	}

	hash, err := auth.HashPassword(string(password))
	if err != nil {
		fail("%v", err)
	}
	// Single quotes keep godotenv from expanding the $ in the hash
	fmt.Printf("%s='%s'\n", key, hash)
}

func prompt(label string) []byte {
	fmt.Fprint(os.Stderr, label)
	password, err := term.ReadPassword(int(os.Stdin.Fd()))
	fmt.Fprintln(os.Stderr)
	if err != nil {
		fail("read password: %v", err)
	}
	return password
}

func fail(format string, args ...interface{}) {
	fmt.Fprintf(os.Stderr, format+"\n", args...)
	os.Exit(1)
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
