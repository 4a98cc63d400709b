// Package export writes a canonical location set as JSON, CSV, or GeoJSON.
package export

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/paulmach/orb"
	"github.com/paulmach/orb/geojson"

	"github.com/agenthands/atlas/internal/core/model"
)

// Format names accepted by Write.
const (
	FormatJSON    = "json"
	FormatCSV     = "csv"
	FormatGeoJSON = "geojson"
)

// Write renders the locations in the named format.
func Write(w io.Writer, format string, locations []model.MergedLocation) error {
	switch strings.ToLower(format) {
	case FormatJSON:
		return WriteJSON(w, locations)
	case FormatCSV:
		return WriteCSV(w, locations)
	case FormatGeoJSON:
		return WriteGeoJSON(w, locations)
	default:
		return fmt.Errorf("unsupported export format: %s", format)
	}
}

func WriteJSON(w io.Writer, locations []model.MergedLocation) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(locations)
}

func WriteCSV(w io.Writer, locations []model.MergedLocation) error {
	cw := csv.NewWriter(w)
	header := []string{"uuid", "name", "type", "description", "confidence", "is_merged", "original_count", "merge_confidence", "source_chunks"}
	if err := cw.Write(header); err != nil {
		return err
	}

	for _, l := range locations {
		isMerged := false
		originalCount := 1
		mergeConfidence := 1.0
		chunks := l.ChunkID
		if l.Deduplication != nil {
			isMerged = l.Deduplication.IsMerged
			originalCount = l.Deduplication.OriginalCount
			mergeConfidence = l.Deduplication.MergeConfidence
			chunks = strings.Join(l.Deduplication.SourceChunks, ";")
		}

		row := []string{
			l.UUID,
			l.Name,
			l.Type,
			l.Description,
			strconv.FormatFloat(l.Confidence, 'f', 4, 64),
			strconv.FormatBool(isMerged),
			strconv.Itoa(originalCount),
			strconv.FormatFloat(mergeConfidence, 'f', 4, 64),
			chunks,
		}
		if err := cw.Write(row); err != nil {
			return err
		}
	}

	cw.Flush()
	return cw.Error()
}

// WriteGeoJSON emits a FeatureCollection. Deduplication runs before
// geocoding in this pipeline, so locations carry no coordinates yet; each
// feature sits at the origin with "geocoded": false, and downstream
// geocoding moves it.
func WriteGeoJSON(w io.Writer, locations []model.MergedLocation) error {
	fc := geojson.NewFeatureCollection()

	for _, l := range locations {
		f := geojson.NewFeature(orb.Point{})
		f.Properties = geojson.Properties{
			"uuid":        l.UUID,
			"name":        l.Name,
			"type":        l.Type,
			"description": l.Description,
			"confidence":  l.Confidence,
			"geocoded":    false,
		}
		if l.Deduplication != nil {
			f.Properties["is_merged"] = l.Deduplication.IsMerged
			f.Properties["original_count"] = l.Deduplication.OriginalCount
			f.Properties["merge_confidence"] = l.Deduplication.MergeConfidence
			f.Properties["source_chunks"] = l.Deduplication.SourceChunks
		}
		fc.Append(f)
	}

	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(fc)
}
