package repository

import (
	"context"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/schoolcast/schoolcast/internal/domain"
	"github.com/schoolcast/schoolcast/internal/repository/testutil"
)

func TestGroupRepository_CreateGroup(t *testing.T) {
	db, mock, cleanup := testutil.SetupMockDB(t)
	defer cleanup()

	repo := NewGroupRepository(db)

	group := &domain.Group{
		ID:   "group-1",
		Name: "Varsity Soccer",
		PIN:  "4217",
	}

	mock.ExpectExec("INSERT INTO groups").
		WithArgs(group.ID, group.Name, group.PIN, group.Description, sqlmock.AnyArg(), sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(1, 1))

	err := repo.CreateGroup(context.Background(), group)
	require.NoError(t, err)
	assert.False(t, group.CreatedAt.IsZero())
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGroupRepository_GetGroup(t *testing.T) {
	db, mock, cleanup := testutil.SetupMockDB(t)
	defer cleanup()

	repo := NewGroupRepository(db)
	now := time.Now().UTC()

	t.Run("found", func(t *testing.T) {
		rows := sqlmock.NewRows([]string{"id", "name", "pin", "description", "created_at", "updated_at"}).
			AddRow("group-1", "Varsity Soccer", "4217", "", now, now)

		mock.ExpectQuery("SELECT (.+) FROM groups").
			WithArgs("group-1").
			WillReturnRows(rows)

		group, err := repo.GetGroup(context.Background(), "group-1")
		require.NoError(t, err)
		assert.Equal(t, "Varsity Soccer", group.Name)
		assert.Equal(t, "4217", group.PIN)
	})

	t.Run("not found", func(t *testing.T) {
		mock.ExpectQuery("SELECT (.+) FROM groups").
			WithArgs("missing").
			WillReturnRows(sqlmock.NewRows([]string{"id", "name", "pin", "description", "created_at", "updated_at"}))

		group, err := repo.GetGroup(context.Background(), "missing")
		assert.Nil(t, group)
		var notFound *domain.ErrNotFound
		assert.ErrorAs(t, err, &notFound)
	})
}

func TestGroupRepository_ListGroups(t *testing.T) {
	db, mock, cleanup := testutil.SetupMockDB(t)
	defer cleanup()

	repo := NewGroupRepository(db)
	now := time.Now().UTC()

	rows := sqlmock.NewRows([]string{"id", "name", "pin", "description", "created_at", "updated_at"}).
		AddRow("group-1", "Band", "", "", now, now).
		AddRow("group-2", "Chess Club", "1234", "after school", now, now)

	mock.ExpectQuery("SELECT (.+) FROM groups").WillReturnRows(rows)

	groups, err := repo.ListGroups(context.Background())
	require.NoError(t, err)
	require.Len(t, groups, 2)
	assert.Equal(t, "Band", groups[0].Name)
	assert.Equal(t, "Chess Club", groups[1].Name)
}

func TestGroupRepository_DeleteGroup(t *testing.T) {
	db, mock, cleanup := testutil.SetupMockDB(t)
	defer cleanup()

	repo := NewGroupRepository(db)

	t.Run("deletes group and members", func(t *testing.T) {
		mock.ExpectBegin()
		mock.ExpectExec("DELETE FROM members").
			WithArgs("group-1").
			WillReturnResult(sqlmock.NewResult(0, 3))
		mock.ExpectExec("DELETE FROM groups").
			WithArgs("group-1").
			WillReturnResult(sqlmock.NewResult(0, 1))
		mock.ExpectCommit()

		err := repo.DeleteGroup(context.Background(), "group-1")
		assert.NoError(t, err)
	})

	t.Run("not found", func(t *testing.T) {
		mock.ExpectBegin()
		mock.ExpectExec("DELETE FROM members").
			WithArgs("missing").
			WillReturnResult(sqlmock.NewResult(0, 0))
		mock.ExpectExec("DELETE FROM groups").
			WithArgs("missing").
			WillReturnResult(sqlmock.NewResult(0, 0))
		mock.ExpectRollback()

		err := repo.DeleteGroup(context.Background(), "missing")
		var notFound *domain.ErrNotFound
		assert.ErrorAs(t, err, &notFound)
	})
}

func TestGroupRepository_CreateMember(t *testing.T) {
	db, mock, cleanup := testutil.SetupMockDB(t)
	defer cleanup()

	repo := NewGroupRepository(db)

	member := &domain.Member{
		ID:      "member-1",
		GroupID: "group-1",
		Name:    "Jordan Reyes",
		Emails:  domain.StringSlice{"jordan@example.com"},
		Phones:  domain.StringSlice{"7325550101"},
	}

	mock.ExpectExec("INSERT INTO members").
		WithArgs(member.ID, member.GroupID, member.Name, member.Emails, member.Phones,
			sqlmock.AnyArg(), sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(1, 1))

	err := repo.CreateMember(context.Background(), member)
	assert.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGroupRepository_DeleteMember(t *testing.T) {
	db, mock, cleanup := testutil.SetupMockDB(t)
	defer cleanup()

	repo := NewGroupRepository(db)

	t.Run("deletes member", func(t *testing.T) {
		mock.ExpectExec("DELETE FROM members").
			WithArgs("member-1").
			WillReturnResult(sqlmock.NewResult(0, 1))

		err := repo.DeleteMember(context.Background(), "member-1")
		assert.NoError(t, err)
	})

	t.Run("not found", func(t *testing.T) {
		mock.ExpectExec("DELETE FROM members").
			WithArgs("missing").
			WillReturnResult(sqlmock.NewResult(0, 0))

		err := repo.DeleteMember(context.Background(), "missing")
		var notFound *domain.ErrNotFound
		assert.ErrorAs(t, err, &notFound)
	})
}

func TestGroupRepository_ListMembersByGroups(t *testing.T) {
	db, mock, cleanup := testutil.SetupMockDB(t)
	defer cleanup()

	repo := NewGroupRepository(db)
	now := time.Now().UTC()

	t.Run("queries all groups at once", func(t *testing.T) {
		rows := sqlmock.NewRows([]string{"id", "group_id", "name", "emails", "phones", "created_at", "updated_at"}).
			AddRow("member-1", "group-1", "Jordan Reyes", []byte(`["jordan@example.com"]`), []byte(`["7325550101"]`), now, now).
			AddRow("member-2", "group-2", "Sam Okafor", []byte(`[]`), []byte(`["9085550123"]`), now, now)

		mock.ExpectQuery("SELECT (.+) FROM members").
			WithArgs("group-1", "group-2").
			WillReturnRows(rows)

		members, err := repo.ListMembersByGroups(context.Background(), []string{"group-1", "group-2"})
		require.NoError(t, err)
		require.Len(t, members, 2)
		assert.Equal(t, domain.StringSlice{"jordan@example.com"}, members[0].Emails)
		assert.Equal(t, domain.StringSlice{"9085550123"}, members[1].Phones)
	})

	t.Run("empty group list short-circuits", func(t *testing.T) {
		members, err := repo.ListMembersByGroups(context.Background(), nil)
		assert.NoError(t, err)
		assert.Nil(t, members)
	})
}
