package dynamo

import (
	"math"
	"testing"

	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuildUpdateExpr_SingleField(t *testing.T) {
	ue, err := buildUpdateExpr(map[string]interface{}{fieldIsPublic: true})
	require.NoError(t, err)
	assert.Equal(t, "SET #f0 = :v0", ue.Expr)
	assert.Equal(t, map[string]string{"#f0": "is_public"}, ue.Names)
	_, ok := ue.Values[":v0"]
	assert.True(t, ok)
}

func TestBuildUpdateExpr_MultipleFields_Deterministic(t *testing.T) {
	updates := map[string]interface{}{
		"updated_at": "2026-01-01T00:00:00Z",
		"is_public":  true,
		"name":       "a.png",
	}
	ue1, err := buildUpdateExpr(updates)
	require.NoError(t, err)
	ue2, err := buildUpdateExpr(updates)
	require.NoError(t, err)

	assert.Equal(t, ue1.Expr, ue2.Expr)

	// Keys must be sorted: is_public < name < updated_at
	assert.Equal(t, "is_public", ue1.Names["#f0"])
	assert.Equal(t, "name", ue1.Names["#f1"])
	assert.Equal(t, "updated_at", ue1.Names["#f2"])
	assert.Equal(t, "SET #f0 = :v0, #f1 = :v1, #f2 = :v2", ue1.Expr)
}

func TestBuildUpdateExpr_ValuesMarshalledCorrectly(t *testing.T) {
	ue, err := buildUpdateExpr(map[string]interface{}{fieldIsPublic: true})
	require.NoError(t, err)
	av, ok := ue.Values[":v0"]
	require.True(t, ok)
	boolVal, isBool := av.(*types.AttributeValueMemberBOOL)
	require.True(t, isBool)
	assert.True(t, boolVal.Value)
}

func TestBuildUpdateExpr_EmptyMap_ReturnsError(t *testing.T) {
	_, err := buildUpdateExpr(map[string]interface{}{})
	assert.ErrorContains(t, err, "no fields to update")
}

func TestPageWindow(t *testing.T) {
	skip, take := pageWindow(0, 20)
	assert.Equal(t, 0, skip)
	assert.Equal(t, 20, take)

	skip, take = pageWindow(3, 20)
	assert.Equal(t, 60, skip)
	assert.Equal(t, 20, take)

	skip, _ = pageWindow(-2, 20)
	assert.Equal(t, 0, skip)

	_, take = pageWindow(1, 0)
	assert.Equal(t, 0, take)

	skip, take = pageWindow(math.MaxInt, 20)
	assert.Equal(t, 0, skip)
	assert.Equal(t, 0, take)
}

func TestGSI_SortKeyOptional(t *testing.T) {
	g := gsi(indexEmail, fieldEmail, "")
	require.Len(t, g.KeySchema, 1)
	assert.Equal(t, "email", *g.KeySchema[0].AttributeName)

	g = gsi(indexParentID, fieldParentID, fieldFileID)
	require.Len(t, g.KeySchema, 2)
	assert.Equal(t, types.KeyTypeRange, g.KeySchema[1].KeyType)
	assert.Equal(t, "file_id", *g.KeySchema[1].AttributeName)
}
