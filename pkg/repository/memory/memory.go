package memory

import (
	"github.com/m-mizutani/goerr/v2"
	"github.com/resq-lab/rollcall/pkg/domain/interfaces"
	"github.com/resq-lab/rollcall/pkg/domain/model"
)

// ErrNotFound is returned when a requested document does not exist.
var ErrNotFound = goerr.New("not found")

// Repository is an alias for Memory to match the pattern
type Repository = Memory

type Memory struct {
	activity *activityRepository
	history  *historyRepository
	tokens   *tokenStore
	sockets  *socketKeyStore
}

var _ interfaces.Repository = &Memory{}

func New() *Memory {
	return &Memory{
		activity: newActivityRepository(),
		history:  newHistoryRepository(),
		tokens:   newTokenStore(),
		sockets:  newSocketKeyStore(),
	}
}

func (m *Memory) Activity() interfaces.ActivityRepository {
	return m.activity
}

func (m *Memory) History() interfaces.HistoryRepository {
	return m.history
}

func (m *Memory) Close() error {
	return nil
}

// HistoryRecords returns a snapshot of the audit log. Test support
// only; the production write path never reads history back.
func (m *Memory) HistoryRecords() []*model.HistoryRecord {
	return m.history.Records()
}
