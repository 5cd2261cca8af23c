package main

import (
	"testing"
	"time"

	"inventar-backend/models"
	"inventar-backend/services"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAuditQueryOrderAndFilters(t *testing.T) {
	ts := newTestServices()
	box := createTestBox(ts, "Toolbox", "")
	item := createTestItem(ts, "Hammer", box.ID, 2)
	_, err := ts.inventory.UpdateItem(item.ID, "Sledgehammer", box.ID, 2)
	require.NoError(t, err)

	// Без фильтров: все записи, новые сверху
	logs, err := ts.audit.Query(services.AuditFilter{})
	require.NoError(t, err)
	require.Len(t, logs, 3)
	assert.Equal(t, models.ActionUpdate, logs[0].Action)
	assert.True(t, logs[0].ID > logs[1].ID)
	assert.True(t, logs[1].ID > logs[2].ID)

	// Временные метки не убывают по порядку вставки
	assert.False(t, logs[0].Timestamp.Before(logs[2].Timestamp))

	// Фильтр по действию
	logs, err = ts.audit.Query(services.AuditFilter{Action: models.ActionCreate})
	require.NoError(t, err)
	assert.Len(t, logs, 2)

	// Фильтр по типу сущности
	logs, err = ts.audit.Query(services.AuditFilter{EntityType: models.EntityBox})
	require.NoError(t, err)
	require.Len(t, logs, 1)
	assert.Equal(t, "Toolbox", logs[0].EntityName)

	// Подстрока имени без учета регистра
	logs, err = ts.audit.Query(services.AuditFilter{Search: "hammer"})
	require.NoError(t, err)
	assert.Len(t, logs, 2) // CREATE "Hammer" и UPDATE "Sledgehammer"

	// Ограничение выборки
	logs, err = ts.audit.Query(services.AuditFilter{Limit: 1})
	require.NoError(t, err)
	assert.Len(t, logs, 1)
}

func TestAuditQueryDateRange(t *testing.T) {
	ts := newTestServices()
	createTestBox(ts, "Toolbox", "")

	yesterday := time.Now().Add(-24 * time.Hour)
	tomorrow := time.Now().Add(24 * time.Hour)

	logs, err := ts.audit.Query(services.AuditFilter{From: &yesterday, To: &tomorrow})
	require.NoError(t, err)
	assert.Len(t, logs, 1)

	logs, err = ts.audit.Query(services.AuditFilter{From: &tomorrow})
	require.NoError(t, err)
	assert.Empty(t, logs)

	logs, err = ts.audit.Query(services.AuditFilter{To: &yesterday})
	require.NoError(t, err)
	assert.Empty(t, logs)
}

func TestAuditEntrySnapshotSurvivesRename(t *testing.T) {
	ts := newTestServices()
	box := createTestBox(ts, "Original Name", "")
	_, err := ts.inventory.UpdateBox(box.ID, "New Name", "")
	require.NoError(t, err)

	// Имя в записи CREATE снято на момент действия,
	// переименование его не трогает
	logs, err := ts.audit.Query(services.AuditFilter{Action: models.ActionCreate})
	require.NoError(t, err)
	require.Len(t, logs, 1)
	assert.Equal(t, "Original Name", logs[0].EntityName)

	// И после удаления история остается читаемой
	_, err = ts.inventory.DeleteBox(box.ID)
	require.NoError(t, err)

	logs, err = ts.audit.Query(services.AuditFilter{Search: "new name"})
	require.NoError(t, err)
	assert.NotEmpty(t, logs)
}

func TestCountsByAction(t *testing.T) {
	ts := newTestServices()
	box := createTestBox(ts, "Box", "")
	item := createTestItem(ts, "Hammer", box.ID, 1)
	_, err := ts.inventory.UpdateItem(item.ID, "Hammer", box.ID, 2)
	require.NoError(t, err)
	require.NoError(t, ts.inventory.DeleteItem(item.ID))

	counts, err := ts.audit.CountsByAction()
	require.NoError(t, err)
	assert.EqualValues(t, 2, counts[models.ActionCreate])
	assert.EqualValues(t, 1, counts[models.ActionUpdate])
	assert.EqualValues(t, 1, counts[models.ActionDelete])
}

func TestValidationFailureLeavesNoPartialAudit(t *testing.T) {
	ts := newTestServices()
	box := createTestBox(ts, "Box", "")

	before := countRows(ts.db, &models.AuditLog{})

	_, err := ts.inventory.CreateItem("", box.ID, 1)
	require.Error(t, err)
	_, err = ts.inventory.CreateItem("Hammer", box.ID, 0)
	require.Error(t, err)
	_, err = ts.inventory.UpdateBox(box.ID, "", "")
	require.Error(t, err)

	// Ни одна неудачная операция не оставила следа в журнале
	assert.Equal(t, before, countRows(ts.db, &models.AuditLog{}))
}
