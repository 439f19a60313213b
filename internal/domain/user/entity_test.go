//go:build unit

package user_test

import (
	"testing"

	"library-api/internal/domain/user"
	"library-api/tests/common/builder"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var cmpOpts = []cmp.Option{
	cmpopts.IgnoreUnexported(user.User{}),
	cmpopts.EquateEmpty(),
}

type testCase struct {
	name   string
	mutate func(*builder.UserBuilder)
	errIs  error
}

func TestUser(t *testing.T) {
	t.Run("基本成功ケース", func(t *testing.T) {

		actual, err := builder.NewUserBuilder().BuildDomain()
		require.NoError(t, err)
		require.NotNil(t, actual)

		email, _ := user.NewEmail("student@example.com")
		expected, err := user.NewStudent("Test Student", email, "hashed_password", "Computer Science", "S-1001")
		require.NoError(t, err)

		if diff := cmp.Diff(expected, actual, cmpOpts...); diff != "" {
			t.Errorf("User mismatch (-want +got):\n%s", diff)
		}

		assert.NotEqual(t, uuid.Nil, actual.ID())
		assert.Equal(t, user.RoleStudent, actual.Role())
		assert.NotNil(t, actual.Department())
		assert.NotNil(t, actual.StudentID())
		assert.Nil(t, actual.EmployeeID())
	})

	t.Run("メールアドレス検証", func(t *testing.T) {
		runCases(t, []testCase{
			{
				name:   "有効なメールアドレスOK",
				mutate: func(b *builder.UserBuilder) { b.WithEmail("valid@example.com") },
			},
			{
				name:   "空のメールアドレスNG",
				mutate: func(b *builder.UserBuilder) { b.WithEmail("") },
				errIs:  user.ErrInvalidEmail,
			},
			{
				name:   "無効な形式NG",
				mutate: func(b *builder.UserBuilder) { b.WithEmail("invalid-email") },
				errIs:  user.ErrInvalidEmail,
			},
			{
				name:   "@なしNG",
				mutate: func(b *builder.UserBuilder) { b.WithEmail("invalidemail.com") },
				errIs:  user.ErrInvalidEmail,
			},
		})
	})

	t.Run("名前検証", func(t *testing.T) {
		runCases(t, []testCase{
			{
				name:   "4文字以上OK",
				mutate: func(b *builder.UserBuilder) { b.WithName("Anna Lee") },
			},
			{
				name:   "3文字以下NG",
				mutate: func(b *builder.UserBuilder) { b.WithName("Al") },
				errIs:  user.ErrInvalidName,
			},
		})
	})

	t.Run("学生プロフィール検証", func(t *testing.T) {
		runCases(t, []testCase{
			{
				name:   "学部と学籍番号有りOK",
				mutate: func(b *builder.UserBuilder) { /* デフォルトで学生 */ },
			},
			{
				name:   "学部無しNG",
				mutate: func(b *builder.UserBuilder) { b.Department = "" },
				errIs:  user.ErrMissingStudentInfo,
			},
			{
				name:   "学籍番号無しNG",
				mutate: func(b *builder.UserBuilder) { b.StudentID = "" },
				errIs:  user.ErrMissingStudentInfo,
			},
		})
	})

	t.Run("司書プロフィール検証", func(t *testing.T) {
		runCases(t, []testCase{
			{
				name:   "職員番号有りOK",
				mutate: func(b *builder.UserBuilder) { b.AsLibrarian() },
			},
			{
				name: "職員番号無しNG",
				mutate: func(b *builder.UserBuilder) {
					b.AsLibrarian()
					b.EmployeeID = ""
				},
				errIs: user.ErrMissingEmployeeID,
			},
		})
	})
}

func TestNewRole(t *testing.T) {
	cases := []struct {
		name  string
		input string
		errIs error
	}{
		{name: "student ロールOK", input: "student"},
		{name: "librarian ロールOK", input: "librarian"},
		{name: "無効なロールNG", input: "admin", errIs: user.ErrInvalidRole},
		{name: "空のロールNG", input: "", errIs: user.ErrInvalidRole},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			role, err := user.NewRole(c.input)
			if c.errIs == nil {
				require.NoError(t, err)
				assert.Equal(t, c.input, string(role))
			} else {
				require.ErrorIs(t, err, c.errIs)
			}
		})
	}
}

func runCases(t *testing.T, cases []testCase) {
	t.Helper()
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {

			actual, err := builder.NewUserBuilder().With(c.mutate).BuildDomain()

			if c.errIs == nil {
				require.NotNil(t, actual)
				require.NoError(t, err)
			} else {
				require.Nil(t, actual)
				require.Error(t, err)
				require.ErrorIs(t, err, c.errIs)
			}
		})
	}
}
