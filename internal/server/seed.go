package server

import (
	"context"
	"log"

	"golang.org/x/crypto/bcrypt"

	"github.com/preparly/taxassist/internal/fixtures"
	"github.com/preparly/taxassist/internal/store"
)

// seedDemoData loads the prototype users, projects, tasks and document
// records into an empty database. It is idempotent at the database level:
// a non-zero user count means a previous seed (or real usage) and skips
// everything.
func seedDemoData(ctx context.Context, st *store.Store) error {
	n, err := st.CountUsers(ctx)
	if err != nil {
		return err
	}
	if n > 0 {
		return nil
	}

	for _, u := range fixtures.Users() {
		hash, err := bcrypt.GenerateFromPassword([]byte(u.Password), bcrypt.DefaultCost)
		if err != nil {
			return err
		}
		if err := st.CreateUser(ctx, u.User, string(hash)); err != nil {
			return err
		}
		log.Printf("seeded user %s (%s)", u.ID, u.Role)
	}
	for _, p := range fixtures.Projects() {
		if _, err := st.CreateProject(ctx, p); err != nil {
			return err
		}
	}
	for _, t := range fixtures.Tasks() {
		if _, err := st.CreateTask(ctx, t); err != nil {
			return err
		}
	}
	for _, d := range fixtures.Documents() {
		// Content stays empty; extraction falls through to the canned
		// fixture texts keyed by file name.
		if _, err := st.CreateDocument(ctx, d, nil); err != nil {
			return err
		}
	}
	log.Printf("seeded demo projects, tasks and documents")
	return nil
}
