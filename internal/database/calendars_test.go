package database

import "testing"

func TestCalendarRepository_GetByUserID_NotFound(t *testing.T) {
	t.Skip("Requires database setup - implement with testcontainers or integration test setup")
}

func TestCalendarRepository_Save_Upsert(t *testing.T) {
	t.Skip("Requires database setup - implement with testcontainers or integration test setup")
}

func TestEmotionStatsRepository_GetByTitleOrCreate_CreatesNew(t *testing.T) {
	t.Skip("Requires database setup - implement with testcontainers or integration test setup")
}
