package db

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSplitPredicates(t *testing.T) {
	preds, err := splitPredicates("(class=otptoken)")
	require.NoError(t, err)
	assert.Equal(t, []string{"class=otptoken"}, preds)

	preds, err = splitPredicates("(&(class=otptokentotp)(owner=uid=alice,cn=users)(disabled=true))")
	require.NoError(t, err)
	assert.Equal(t, []string{"class=otptokentotp", "owner=uid=alice,cn=users", "disabled=true"}, preds)

	preds, err = splitPredicates("")
	require.NoError(t, err)
	assert.Nil(t, preds)

	_, err = splitPredicates("class=otptoken")
	assert.Error(t, err)

	_, err = splitPredicates("(class=otptoken")
	assert.Error(t, err)
}

func TestFilterToSQL(t *testing.T) {
	// The generic class marker matches every row and produces no clause.
	where, args, err := filterToSQL("(class=otptoken)")
	require.NoError(t, err)
	assert.Empty(t, where)
	assert.Empty(t, args)

	where, args, err = filterToSQL("(class=otptokenhotp)")
	require.NoError(t, err)
	assert.Equal(t, "classes @> $1", where)
	assert.Equal(t, []any{[]string{"otptokenhotp"}}, args)

	where, args, err = filterToSQL("(&(class=otptoken)(owner=uid=alice,cn=users)(disabled=false))")
	require.NoError(t, err)
	assert.Equal(t, "owner = $1 AND disabled = $2", where)
	assert.Equal(t, []any{"uid=alice,cn=users", false}, args)

	where, args, err = filterToSQL("(id=tok-1)")
	require.NoError(t, err)
	assert.Equal(t, "id = $1", where)
	assert.Equal(t, []any{"tok-1"}, args)

	_, _, err = filterToSQL("(serial=123)")
	assert.Error(t, err)
}
