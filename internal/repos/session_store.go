package repos

import (
	"context"
	"database/sql"
	"errors"

	"invdash/internal/domain"

	"github.com/jmoiron/sqlx"
)

// ErrNoSession is returned by session stores when a sid is not bound to a user.
var ErrNoSession = errors.New("no session")

// DBSessionStore keeps sid -> user bindings in the sessions table.
type DBSessionStore struct{ db *sqlx.DB }

func NewDBSessionStore(db *sqlx.DB) *DBSessionStore { return &DBSessionStore{db: db} }

func (s *DBSessionStore) Bind(ctx context.Context, sid string, sess *domain.Session) error {
	_, err := s.db.ExecContext(ctx, s.db.Rebind(`INSERT INTO sessions(id,user_id,last_seen)
                          VALUES(?,?,CURRENT_TIMESTAMP)
                          ON CONFLICT(id) DO UPDATE SET user_id=excluded.user_id,last_seen=CURRENT_TIMESTAMP`), sid, sess.ID)
	return err
}

func (s *DBSessionStore) Lookup(ctx context.Context, sid string) (*domain.Session, error) {
	var sess domain.Session
	err := s.db.GetContext(ctx, &sess, s.db.Rebind(`
      SELECT u.id,u.username,u.role
      FROM sessions s
      JOIN users u ON u.id=s.user_id
      WHERE s.id=?`), sid)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNoSession
	}
	if err != nil {
		return nil, err
	}
	return &sess, nil
}

func (s *DBSessionStore) Unbind(ctx context.Context, sid string) error {
	_, err := s.db.ExecContext(ctx, s.db.Rebind(`DELETE FROM sessions WHERE id=?`), sid)
	return err
}
