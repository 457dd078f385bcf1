package fixture

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vvka-141/sptest/pkg/sptest"
)

const sampleFixture = `{
  "usp_CreateTeam": [
    {
      "case_id": "create_ok",
      "case_type": "positive",
      "description": "creates a team",
      "parameters": {"@strName": "Alpha", "@intOwnerID": 7},
      "post_sql": ["SELECT * FROM Teams WHERE Name = '{strName}'"],
      "expected_post_state": [{"row_count": 1, "expected_columns": {"Status": "Active"}}]
    },
    {
      "case_type": "negative",
      "parameters": {"@strName": ""}
    }
  ],
  "usp_TeamWithMembers": [
    {
      "case_id": "chain_ok",
      "case_type": "positive",
      "chain_config": [
        {"step": 1, "sp_name": "usp_CreateTeam", "parameters": {"@strName": "Beta"}, "output_mapping": {"@intTeamID": "team_id"}},
        {"step": 2, "sp_name": "usp_AddMember", "input_mapping": {"@intTeamID": "team_id"}}
      ],
      "cleanup_sql": [["DELETE FROM Teams WHERE TeamID = ?", 1]]
    }
  ]
}`

func writeFixture(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "cases.json")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoad(t *testing.T) {
	path := writeFixture(t, sampleFixture)

	doc, err := Load(path)
	require.NoError(t, err)
	require.Len(t, doc, 2)

	cases := doc["usp_CreateTeam"]
	require.Len(t, cases, 2)
	assert.Equal(t, "create_ok", cases[0].CaseID)
	assert.False(t, cases[0].IsChain())

	// Parameter order follows the fixture text.
	assert.Equal(t, []string{"@strName", "@intOwnerID"}, cases[0].Parameters.Names())
	v, _ := cases[0].Parameters.Get("@intOwnerID")
	assert.Equal(t, int64(7), v)

	chain := doc["usp_TeamWithMembers"][0]
	assert.True(t, chain.IsChain())
	require.Len(t, chain.ChainConfig, 2)
	assert.Equal(t, "usp_CreateTeam", chain.ChainConfig[0].ProcName)
	assert.Equal(t, map[string]string{"@intTeamID": "team_id"}, chain.ChainConfig[0].OutputMapping)
}

func TestLoad_AppendsExtension(t *testing.T) {
	path := writeFixture(t, sampleFixture)
	bare := path[:len(path)-len(".json")]

	doc, err := Load(bare)
	require.NoError(t, err)
	assert.Len(t, doc, 2)
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope"))
	require.Error(t, err)
	assert.ErrorIs(t, err, sptest.ErrFixtureNotFound)
}

func TestLoad_ChainStepWithoutProcNameRejected(t *testing.T) {
	path := writeFixture(t, `{"usp_X": [{"case_id": "bad", "chain_config": [{"step": 1}]}]}`)
	_, err := Load(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "usp_X")
}

func TestCasesFor(t *testing.T) {
	path := writeFixture(t, sampleFixture)
	doc, err := Load(path)
	require.NoError(t, err)

	all := doc.CasesFor("usp_CreateTeam", "", "")
	require.Len(t, all, 2)
	assert.Equal(t, "case_2", all[1].CaseID, "unnamed cases are labeled by position")

	positive := doc.CasesFor("usp_CreateTeam", "POSITIVE", "")
	require.Len(t, positive, 1)
	assert.Equal(t, "create_ok", positive[0].CaseID)

	byID := doc.CasesFor("usp_CreateTeam", "", "create_ok")
	require.Len(t, byID, 1)

	assert.Empty(t, doc.CasesFor("usp_Unknown", "", ""))
}

func TestStatement_Shapes(t *testing.T) {
	path := writeFixture(t, sampleFixture)
	doc, err := Load(path)
	require.NoError(t, err)

	bare := doc["usp_CreateTeam"][0].PostSQL[0]
	assert.Equal(t, "SELECT * FROM Teams WHERE Name = '{strName}'", bare.Text)
	assert.Empty(t, bare.Args)

	withArgs := doc["usp_TeamWithMembers"][0].CleanupSQL[0]
	assert.Equal(t, "DELETE FROM Teams WHERE TeamID = ?", withArgs.Text)
	assert.Equal(t, []any{float64(1)}, withArgs.Args)
}

func TestExpectation(t *testing.T) {
	path := writeFixture(t, sampleFixture)
	doc, err := Load(path)
	require.NoError(t, err)

	exp := doc["usp_CreateTeam"][0].ExpectedPostState
	require.Len(t, exp, 1)
	require.NotNil(t, exp[0].RowCount)
	assert.Equal(t, 1, *exp[0].RowCount)
	assert.Equal(t, "Active", exp[0].ExpectedColumns["Status"])
}

func TestInterpolate(t *testing.T) {
	params := sptest.NewParameterSet()
	params.Set("@strName", "Alpha")
	params.Set("@intOwnerID", int64(7))
	ctx := BuildContext(params, map[string]any{"team_id": int64(42)})

	got := Interpolate("SELECT * FROM Teams WHERE Name = '{strName}' AND TeamID = {team_id}", ctx)
	assert.Equal(t, "SELECT * FROM Teams WHERE Name = 'Alpha' AND TeamID = 42", got)

	// Unknown placeholders pass through untouched.
	got = Interpolate("SELECT '{not_a_key}'", ctx)
	assert.Equal(t, "SELECT '{not_a_key}'", got)
}

func TestBuildContext_ChainDataWins(t *testing.T) {
	params := sptest.NewParameterSet()
	params.Set("@intTeamID", int64(0))
	ctx := BuildContext(params, map[string]any{"intTeamID": int64(9)})
	assert.Equal(t, int64(9), ctx["intTeamID"])
}
