package domain

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
)

func TestParseSkills(t *testing.T) {
	assert.Equal(t, SkillList{"Python", "AWS", "Docker"}, ParseSkills(" Python, AWS ,,Docker "))
	assert.Empty(t, ParseSkills(""))
	assert.Empty(t, ParseSkills(" , ,"))
}

func TestSkillList_UnmarshalJSON(t *testing.T) {
	cases := []struct {
		name string
		in   string
		want SkillList
	}{
		{"array", `{"skills":["Go","SQL"]}`, SkillList{"Go", "SQL"}},
		{"comma string", `{"skills":"Go, SQL"}`, SkillList{"Go", "SQL"}},
		{"array with joined item", `{"skills":["Go, SQL","AWS"]}`, SkillList{"Go", "SQL", "AWS"}},
		{"null", `{"skills":null}`, nil},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			var j JobRecord
			require.NoError(t, json.Unmarshal([]byte(tc.in), &j))
			assert.Equal(t, tc.want, j.Skills)
		})
	}
}

func TestSkillList_UnmarshalJSON_RejectsNumbers(t *testing.T) {
	var j JobRecord
	err := json.Unmarshal([]byte(`{"skills":[1,2]}`), &j)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "skills[0]")
}

func TestSkillList_UnmarshalYAML(t *testing.T) {
	var seq JobRecord
	require.NoError(t, yaml.Unmarshal([]byte("skills:\n  - Go\n  - Kubernetes\n"), &seq))
	assert.Equal(t, SkillList{"Go", "Kubernetes"}, seq.Skills)

	var scalar JobRecord
	require.NoError(t, yaml.Unmarshal([]byte("skills: \"Go, Kubernetes\"\n"), &scalar))
	assert.Equal(t, SkillList{"Go", "Kubernetes"}, scalar.Skills)

	var mapping JobRecord
	require.Error(t, yaml.Unmarshal([]byte("skills:\n  a: b\n"), &mapping))
}

func TestSkillList_StringAndNormalized(t *testing.T) {
	s := SkillList{"Python", " AWS ", ""}
	assert.Equal(t, "Python,  AWS , ", s.String())
	assert.Equal(t, []string{"python", "aws"}, s.Normalized())
	assert.Equal(t, SkillList{"Python", "AWS"}, ParseSkills(SkillList{"Python", "AWS"}.String()))
}
