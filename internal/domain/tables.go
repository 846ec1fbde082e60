package domain

import (
	"encoding/json"
	"sort"
	"time"
)

// Logical dataset names known to the table store.
const (
	UserDataName       = "UserData"
	ReflectionDataName = "ReflectionData"
	QuestionsDataName  = "QuestionsData"
	RecurssionDataName = "RecurssionData"
	FeedbackDataName   = "FeedbackData"
	ConfidenceDataName = "ConfidenceData"
	FocusDataName      = "FocusData"
	EnergyDataName     = "EnergyData"
)

// Table addresses one partition of the table store
type Table struct {
	Name         string `json:"tableName"`
	PartitionKey string `json:"partitionKey"`
}

// String returns "name/partition"
func (t Table) String() string {
	return t.Name + "/" + t.PartitionKey
}

var (
	UserDataTable       = Table{Name: UserDataName, PartitionKey: UserDataName}
	ReflectionDataTable = Table{Name: ReflectionDataName, PartitionKey: ReflectionDataName}
	QuestionsDataTable  = Table{Name: QuestionsDataName, PartitionKey: QuestionsDataName}
	RecurssionDataTable = Table{Name: RecurssionDataName, PartitionKey: RecurssionDataName}
	FeedbackDataTable   = Table{Name: FeedbackDataName, PartitionKey: FeedbackDataName}
	ConfidenceDataTable = Table{Name: ConfidenceDataName, PartitionKey: ConfidenceDataName}
	FocusDataTable      = Table{Name: FocusDataName, PartitionKey: FocusDataName}
	EnergyDataTable     = Table{Name: EnergyDataName, PartitionKey: EnergyDataName}
)

// partitionKeys is never mutated after package init.
var partitionKeys = map[string]Table{
	UserDataName:       UserDataTable,
	ReflectionDataName: ReflectionDataTable,
	QuestionsDataName:  QuestionsDataTable,
	RecurssionDataName: RecurssionDataTable,
	FeedbackDataName:   FeedbackDataTable,
	ConfidenceDataName: ConfidenceDataTable,
	FocusDataName:      FocusDataTable,
	EnergyDataName:     EnergyDataTable,
}

// LookupTable returns the table and partition key for a logical dataset name
func LookupTable(name string) (Table, bool) {
	t, ok := partitionKeys[name]
	return t, ok
}

// Tables returns every registered table sorted by name
func Tables() []Table {
	tables := make([]Table, 0, len(partitionKeys))
	for _, t := range partitionKeys {
		tables = append(tables, t)
	}
	sort.Slice(tables, func(i, j int) bool {
		return tables[i].Name < tables[j].Name
	})
	return tables
}

// TableEntity is a single stored row.
// Properties holds the row's JSON object; PartitionKey and RowKey are not
// repeated inside it.
type TableEntity struct {
	PartitionKey string          `json:"partitionKey"`
	RowKey       string          `json:"rowKey"`
	Timestamp    time.Time       `json:"timestamp"`
	Properties   json.RawMessage `json:"properties"`
}

// SortEntities orders rows by RowKey, the order every backend scan returns.
func SortEntities(entities []TableEntity) {
	sort.SliceStable(entities, func(i, j int) bool {
		return entities[i].RowKey < entities[j].RowKey
	})
}
