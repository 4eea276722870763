package block

// UpdateRequest is one entry of a block update or batch update call. Exactly
// one operation field is set.
type UpdateRequest struct {
	BlockID             string               `json:"block_id,omitempty"`
	UpdateTextElements  *UpdateTextElements  `json:"update_text_elements,omitempty"`
	UpdateTableProperty *UpdateTableProperty `json:"update_table_property,omitempty"`
	InsertTableRow      *InsertTableRow      `json:"insert_table_row,omitempty"`
	InsertTableColumn   *InsertTableColumn   `json:"insert_table_column,omitempty"`
	DeleteTableRows     *DeleteTableRows     `json:"delete_table_rows,omitempty"`
	DeleteTableColumns  *DeleteTableColumns  `json:"delete_table_columns,omitempty"`
	MergeTableCells     *MergeTableCells     `json:"merge_table_cells,omitempty"`
	UnmergeTableCells   *UnmergeTableCells   `json:"unmerge_table_cells,omitempty"`
	ReplaceImage        *ReplaceToken        `json:"replace_image,omitempty"`
	ReplaceFile         *ReplaceToken        `json:"replace_file,omitempty"`
}

type UpdateTextElements struct {
	Elements []TextElement `json:"elements"`
	Style    *TextStyle    `json:"style,omitempty"`
}

type UpdateTableProperty struct {
	ColumnWidth  int   `json:"column_width,omitempty"`
	ColumnIndex  int   `json:"column_index"`
	HeaderRow    *bool `json:"header_row,omitempty"`
	HeaderColumn *bool `json:"header_column,omitempty"`
}

type InsertTableRow struct {
	RowIndex int `json:"row_index"`
}

type InsertTableColumn struct {
	ColumnIndex int `json:"column_index"`
}

type DeleteTableRows struct {
	RowStartIndex int `json:"row_start_index"`
	RowEndIndex   int `json:"row_end_index"`
}

type DeleteTableColumns struct {
	ColumnStartIndex int `json:"column_start_index"`
	ColumnEndIndex   int `json:"column_end_index"`
}

type MergeTableCells struct {
	RowStartIndex    int `json:"row_start_index"`
	RowEndIndex      int `json:"row_end_index"`
	ColumnStartIndex int `json:"column_start_index"`
	ColumnEndIndex   int `json:"column_end_index"`
}

type UnmergeTableCells struct {
	RowIndex    int `json:"row_index"`
	ColumnIndex int `json:"column_index"`
}

type ReplaceToken struct {
	Token string `json:"token"`
}

// BatchBuilder accumulates update requests for a batch update call.
type BatchBuilder struct {
	requests []UpdateRequest
}

// NewBatchBuilder creates an empty builder.
func NewBatchBuilder() *BatchBuilder {
	return &BatchBuilder{}
}

func (b *BatchBuilder) add(r UpdateRequest) *BatchBuilder {
	b.requests = append(b.requests, r)
	return b
}

// UpdateTextElements replaces the elements of a textual block.
func (b *BatchBuilder) UpdateTextElements(blockID string, elements []TextElement) *BatchBuilder {
	return b.add(UpdateRequest{
		BlockID:            blockID,
		UpdateTextElements: &UpdateTextElements{Elements: elements},
	})
}

// UpdateText replaces the runs of a textual block and optionally its style.
func (b *BatchBuilder) UpdateText(blockID string, runs []TextRun, style *TextStyle) *BatchBuilder {
	return b.add(UpdateRequest{
		BlockID: blockID,
		UpdateTextElements: &UpdateTextElements{
			Elements: Elements(runs...),
			Style:    style,
		},
	})
}

func (b *BatchBuilder) UpdateTableProperty(blockID string, prop UpdateTableProperty) *BatchBuilder {
	return b.add(UpdateRequest{BlockID: blockID, UpdateTableProperty: &prop})
}

func (b *BatchBuilder) InsertTableRow(blockID string, rowIndex int) *BatchBuilder {
	return b.add(UpdateRequest{BlockID: blockID, InsertTableRow: &InsertTableRow{RowIndex: rowIndex}})
}

func (b *BatchBuilder) InsertTableColumn(blockID string, columnIndex int) *BatchBuilder {
	return b.add(UpdateRequest{BlockID: blockID, InsertTableColumn: &InsertTableColumn{ColumnIndex: columnIndex}})
}

// DeleteTableRows deletes rows [start, end).
func (b *BatchBuilder) DeleteTableRows(blockID string, start, end int) *BatchBuilder {
	return b.add(UpdateRequest{
		BlockID:         blockID,
		DeleteTableRows: &DeleteTableRows{RowStartIndex: start, RowEndIndex: end},
	})
}

// DeleteTableColumns deletes columns [start, end).
func (b *BatchBuilder) DeleteTableColumns(blockID string, start, end int) *BatchBuilder {
	return b.add(UpdateRequest{
		BlockID:            blockID,
		DeleteTableColumns: &DeleteTableColumns{ColumnStartIndex: start, ColumnEndIndex: end},
	})
}

// MergeTableCells merges the cell range rows [rowStart, rowEnd) x columns [colStart, colEnd).
func (b *BatchBuilder) MergeTableCells(blockID string, rowStart, rowEnd, colStart, colEnd int) *BatchBuilder {
	return b.add(UpdateRequest{
		BlockID: blockID,
		MergeTableCells: &MergeTableCells{
			RowStartIndex:    rowStart,
			RowEndIndex:      rowEnd,
			ColumnStartIndex: colStart,
			ColumnEndIndex:   colEnd,
		},
	})
}

func (b *BatchBuilder) UnmergeTableCells(blockID string, row, col int) *BatchBuilder {
	return b.add(UpdateRequest{
		BlockID:           blockID,
		UnmergeTableCells: &UnmergeTableCells{RowIndex: row, ColumnIndex: col},
	})
}

func (b *BatchBuilder) ReplaceImage(blockID, token string) *BatchBuilder {
	return b.add(UpdateRequest{BlockID: blockID, ReplaceImage: &ReplaceToken{Token: token}})
}

func (b *BatchBuilder) ReplaceFile(blockID, token string) *BatchBuilder {
	return b.add(UpdateRequest{BlockID: blockID, ReplaceFile: &ReplaceToken{Token: token}})
}

// Len returns the number of queued requests.
func (b *BatchBuilder) Len() int {
	return len(b.requests)
}

// Build returns a copy of the queued requests.
func (b *BatchBuilder) Build() []UpdateRequest {
	out := make([]UpdateRequest, len(b.requests))
	copy(out, b.requests)
	return out
}
