package driver

const (
	// SaveLocationQuery upserts one canonical location together with its
	// deduplication metadata.
	SaveLocationQuery = `
		MERGE (l:Location {uuid: $uuid})
		SET l.name = $name,
			l.type = $type,
			l.group_id = $group_id,
			l.description = $description,
			l.source_text = $source_text,
			l.confidence = $confidence,
			l.created_at = $created_at,
			l.is_merged = $is_merged,
			l.original_count = $original_count,
			l.merge_confidence = $merge_confidence,
			l.source_chunks = $source_chunks
		RETURN l.uuid AS uuid
	`

	// SaveChunkQuery upserts a provenance chunk node.
	SaveChunkQuery = `
		MERGE (c:Chunk {chunk_id: $chunk_id})
		SET c.group_id = $group_id,
			c.created_at = $created_at
		RETURN c.chunk_id AS chunk_id
	`

	// SaveExtractionEdgeQuery links a canonical location back to a chunk it
	// was extracted from.
	SaveExtractionEdgeQuery = `
		MATCH (l:Location {uuid: $location_uuid})
		MATCH (c:Chunk {chunk_id: $chunk_id})
		MERGE (l)-[e:EXTRACTED_FROM]->(c)
		SET e.created_at = $created_at
		RETURN l.uuid AS uuid
	`

	// GroupLocationsQuery reads back every canonical location of a group.
	GroupLocationsQuery = `
		MATCH (l:Location {group_id: $group_id})
		RETURN l.uuid AS uuid, l.name AS name, l.type AS type,
			l.description AS description, l.confidence AS confidence
		ORDER BY l.name
	`
)
