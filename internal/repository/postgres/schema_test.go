package postgres

import (
	"os"
	"reflect"
	"regexp"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/oakfield/care-api/internal/model"
)

// The repositories read with SELECT * into tagged structs, so every
// column the schema declares needs a db-tag destination and every
// tagged field needs a column behind it. This pins migrations/schema.sql
// to the scan targets so the two cannot drift apart.
func TestSchemaMatchesScanTargets(t *testing.T) {
	tables := schemaColumns(t)

	cases := []struct {
		table  string
		target interface{}
	}{
		{"patients", model.Patient{}},
		{"emergency_contacts", model.EmergencyContact{}},
		{"medications", model.Medication{}},
		{"medication_administrations", model.Administration{}},
		{"tasks", model.Task{}},
		{"daily_logs", dailyLogRow{}},
		{"meals", mealRow{}},
		{"memory_items", model.MemoryItem{}},
		{"users", model.User{}},
		{"family_links", model.FamilyLink{}},
		{"outbox_events", model.OutboxEvent{}},
	}

	for _, tc := range cases {
		t.Run(tc.table, func(t *testing.T) {
			cols, ok := tables[tc.table]
			require.True(t, ok, "schema has no table %s", tc.table)
			assert.ElementsMatch(t, dbTags(reflect.TypeOf(tc.target)), cols)
		})
	}
}

var createTableRe = regexp.MustCompile(`(?s)CREATE TABLE IF NOT EXISTS (\w+) \((.*?)\);`)

func schemaColumns(t *testing.T) map[string][]string {
	t.Helper()

	raw, err := os.ReadFile("../../../migrations/schema.sql")
	require.NoError(t, err)

	tables := make(map[string][]string)
	for _, m := range createTableRe.FindAllStringSubmatch(string(raw), -1) {
		var cols []string
		for _, line := range strings.Split(m[2], "\n") {
			line = strings.TrimSuffix(strings.TrimSpace(line), ",")
			if line == "" {
				continue
			}
			first := strings.Fields(line)[0]
			switch strings.ToUpper(first) {
			case "PRIMARY", "UNIQUE", "FOREIGN", "CONSTRAINT", "CHECK":
				continue
			}
			cols = append(cols, first)
		}
		tables[m[1]] = cols
	}
	return tables
}

func dbTags(typ reflect.Type) []string {
	var tags []string
	for i := 0; i < typ.NumField(); i++ {
		f := typ.Field(i)
		if f.Anonymous {
			tags = append(tags, dbTags(f.Type)...)
			continue
		}
		tag := f.Tag.Get("db")
		if tag == "" || tag == "-" {
			continue
		}
		tags = append(tags, tag)
	}
	return tags
}
