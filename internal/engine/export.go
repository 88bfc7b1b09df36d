package engine

import (
	"fmt"
	"io"

	"github.com/apache/arrow/go/v18/arrow"
	"github.com/apache/arrow/go/v18/arrow/array"
	"github.com/apache/arrow/go/v18/arrow/ipc"
	"github.com/apache/arrow/go/v18/arrow/memory"
)

// ArrowSchema is the column layout of an exported view.
var ArrowSchema = arrow.NewSchema([]arrow.Field{
	{Name: ColDate, Type: arrow.FixedWidthTypes.Date32},
	{Name: ColSectorKey, Type: arrow.BinaryTypes.String},
	{Name: ColName, Type: arrow.BinaryTypes.String},
	{Name: ColIndex, Type: arrow.PrimitiveTypes.Float64},
}, nil)

// WriteArrow streams the view as a single Arrow IPC record batch.
func WriteArrow(w io.Writer, v FilteredView) error {
	mem := memory.NewGoAllocator()

	b := array.NewRecordBuilder(mem, ArrowSchema)
	defer b.Release()

	dates := b.Field(0).(*array.Date32Builder)
	keys := b.Field(1).(*array.StringBuilder)
	names := b.Field(2).(*array.StringBuilder)
	values := b.Field(3).(*array.Float64Builder)

	dates.Reserve(v.Len())
	keys.Reserve(v.Len())
	names.Reserve(v.Len())
	values.Reserve(v.Len())

	ds := v.ds
	for _, row := range v.rows {
		dates.Append(arrow.Date32FromTime(ds.dates[row]))
		keys.Append(ds.keyDict[ds.keyIDs[row]])
		names.Append(ds.nameDict[ds.nameIDs[row]])
		values.Append(ds.indexes[row])
	}

	rec := b.NewRecord()
	defer rec.Release()

	iw := ipc.NewWriter(w, ipc.WithSchema(ArrowSchema), ipc.WithAllocator(mem))
	if err := iw.Write(rec); err != nil {
		iw.Close()
		return fmt.Errorf("write arrow record: %w", err)
	}
	return iw.Close()
}
