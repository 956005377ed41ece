package state

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStateTransitions(t *testing.T) {
	sm := NewManager()

	assert.Equal(t, StateNone, sm.GetState(1))

	sm.SetState(1, StateRegisterEmail)
	assert.Equal(t, StateRegisterEmail, sm.GetState(1))

	// состояния пользователей независимы
	assert.Equal(t, StateNone, sm.GetState(2))

	sm.SetState(1, StateNone)
	assert.Equal(t, StateNone, sm.GetState(1))
}

func TestDialogDataLifetime(t *testing.T) {
	sm := NewManager()

	sm.SetState(1, StateSlotFormDate)
	sm.SetData(1, "form_date", "2026-09-07")
	sm.SetData(1, "form_capacity", 3)

	assert.Equal(t, "2026-09-07", sm.GetString(1, "form_date"))
	assert.Equal(t, 3, sm.GetInt(1, "form_capacity"))

	// данные переживают смену шага
	sm.SetState(1, StateSlotFormRange)
	assert.Equal(t, "2026-09-07", sm.GetString(1, "form_date"))

	// но не ClearState
	sm.ClearState(1)
	assert.Empty(t, sm.GetString(1, "form_date"))
	assert.Zero(t, sm.GetInt(1, "form_capacity"))
	_, ok := sm.GetData(1, "form_date")
	assert.False(t, ok)
}

func TestMissingDataDefaults(t *testing.T) {
	sm := NewManager()

	assert.Empty(t, sm.GetString(9, "nope"))
	assert.Zero(t, sm.GetInt(9, "nope"))

	// нестроковое значение под строковым геттером
	sm.SetData(9, "n", 5)
	assert.Empty(t, sm.GetString(9, "n"))
	assert.Equal(t, 5, sm.GetInt(9, "n"))
}

func TestConcurrentAccess(t *testing.T) {
	sm := NewManager()

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func(id int64) {
			defer wg.Done()
			sm.SetState(id, StateFeedbackText)
			sm.SetData(id, "k", id)
			sm.GetState(id)
			sm.ClearState(id)
		}(int64(i % 5))
	}
	wg.Wait()

	require.NotPanics(t, func() { sm.GetState(0) })
}
