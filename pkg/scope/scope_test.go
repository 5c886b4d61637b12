package scope

import (
	"reflect"
	"testing"

	"github.com/paiban/shiftsat/pkg/dslmodel"
)

func testSpec() dslmodel.Spec {
	return dslmodel.Spec{
		Sets: dslmodel.Sets{Employees: []string{"P1", "P2", "P3", "P4"}},
		Groups: map[string][]string{
			"nurses": {"P1", "P2", "P3"},
		},
		Employees: map[string]dslmodel.Employee{
			"P1": {Skills: []string{"cpr", "triage"}, Roles: []string{"lead"}, SiteHome: "A", Contract: dslmodel.Contract{Type: "full_time"}},
			"P2": {Skills: []string{"cpr"}, Roles: []string{"lead"}, SiteHome: "B", Contract: dslmodel.Contract{Type: "part_time"}},
			"P3": {Skills: []string{"triage"}, SiteHome: "A", Contract: dslmodel.Contract{Type: "full_time"}},
			"P4": {Skills: []string{}, SiteHome: "B", Contract: dslmodel.Contract{Type: "part_time"}},
		},
	}
}

func TestSelect(t *testing.T) {
	spec := testSpec()

	tests := []struct {
		name  string
		scope dslmodel.Scope
		want  []string
	}{
		{
			name:  "空 scope 选择全体员工",
			scope: dslmodel.Scope{},
			want:  []string{"P1", "P2", "P3", "P4"},
		},
		{
			name:  "ALL 等价于空 scope",
			scope: dslmodel.Scope{Employees: dslmodel.EmployeeScope{All: true}},
			want:  []string{"P1", "P2", "P3", "P4"},
		},
		{
			name:  "显式列表起点",
			scope: dslmodel.Scope{Employees: dslmodel.EmployeeScope{List: []string{"P2", "P4"}}},
			want:  []string{"P2", "P4"},
		},
		{
			name:  "按组过滤",
			scope: dslmodel.Scope{Groups: []string{"nurses"}},
			want:  []string{"P1", "P2", "P3"},
		},
		{
			name:  "未知组产生空交集",
			scope: dslmodel.Scope{Groups: []string{"ghosts"}},
			want:  []string{},
		},
		{
			name:  "skills_any",
			scope: dslmodel.Scope{SkillsAny: []string{"triage"}},
			want:  []string{"P1", "P3"},
		},
		{
			name:  "skills_all",
			scope: dslmodel.Scope{SkillsAll: []string{"cpr", "triage"}},
			want:  []string{"P1"},
		},
		{
			name:  "组与角色交集",
			scope: dslmodel.Scope{Groups: []string{"nurses"}, RolesAny: []string{"lead"}},
			want:  []string{"P1", "P2"},
		},
		{
			name:  "sites_any",
			scope: dslmodel.Scope{SitesAny: []string{"A"}},
			want:  []string{"P1", "P3"},
		},
		{
			name:  "contracts_any",
			scope: dslmodel.Scope{ContractsAny: []string{"part_time"}},
			want:  []string{"P2", "P4"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Select(spec, tt.scope)
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("Select() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestSelect_Idempotent(t *testing.T) {
	spec := testSpec()
	sc := dslmodel.Scope{Groups: []string{"nurses"}, SkillsAny: []string{"cpr"}}

	first := Select(spec, sc)
	second := Select(spec, sc)
	if !reflect.DeepEqual(first, second) {
		t.Errorf("Select() not idempotent: %v != %v", first, second)
	}
}
