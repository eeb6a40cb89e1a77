// model/loanModel_test.go
package model

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestNewLoan_DefaultDueDate(t *testing.T) {
	loanDate := NewDate(2024, time.January, 1)

	l := NewLoan(7, "Andi", loanDate, Date{}, nil)

	require.Equal(t, LoanBorrowed, l.Status)
	require.Equal(t, "2024-01-15", l.DueDate.String())
	require.Nil(t, l.ReturnDate)
}

func TestNewLoan_ExplicitDueDate(t *testing.T) {
	loanDate := NewDate(2024, time.January, 1)
	dueDate := NewDate(2024, time.January, 20)

	l := NewLoan(7, "Andi", loanDate, dueDate, nil)

	require.Equal(t, "2024-01-20", l.DueDate.String())
}

func TestMarkReturned_Once(t *testing.T) {
	today := NewDate(2024, time.February, 2)
	l := NewLoan(7, "Andi", NewDate(2024, time.January, 1), Date{}, nil)

	err := l.MarkReturned(Date{}, today)
	require.NoError(t, err)
	require.Equal(t, LoanReturned, l.Status)
	require.NotNil(t, l.ReturnDate)
	require.Equal(t, "2024-02-02", l.ReturnDate.String())

	err = l.MarkReturned(Date{}, today)
	require.ErrorIs(t, err, ErrAlreadyReturned)
}

func TestMarkReturned_ExplicitDate(t *testing.T) {
	l := NewLoan(7, "Andi", NewDate(2024, time.January, 1), Date{}, nil)

	err := l.MarkReturned(NewDate(2024, time.January, 10), NewDate(2024, time.February, 2))
	require.NoError(t, err)
	require.Equal(t, "2024-01-10", l.ReturnDate.String())
}

func TestIsOverdue(t *testing.T) {
	l := NewLoan(7, "Andi", NewDate(2024, time.January, 1), Date{}, nil)
	// due 2024-01-15

	require.False(t, l.IsOverdue(NewDate(2024, time.January, 15)), "due day itself is not overdue")
	require.True(t, l.IsOverdue(NewDate(2024, time.January, 16)))

	// a returned loan is never overdue, whatever the due date
	require.NoError(t, l.MarkReturned(Date{}, NewDate(2024, time.March, 1)))
	require.False(t, l.IsOverdue(NewDate(2024, time.March, 1)))
}

func TestParseDate(t *testing.T) {
	d, err := ParseDate("2024-01-31")
	require.NoError(t, err)
	require.Equal(t, "2024-01-31", d.String())

	_, err = ParseDate("31-01-2024")
	require.Error(t, err)

	_, err = ParseDate("2024-02-30")
	require.Error(t, err)
}

func TestDaysUntil(t *testing.T) {
	a := NewDate(2024, time.January, 1)
	b := NewDate(2024, time.March, 1)
	require.Equal(t, 60, a.DaysUntil(b))
}
