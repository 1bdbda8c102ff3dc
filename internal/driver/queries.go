package driver

const (
	SavePropertyQuery = `
		MERGE (p:Property {property_id: $property_id})
		SET p.uuid = $uuid,
			p.record_json = $record_json,
			p.extraction_gaps = $extraction_gaps,
			p.flag_count = $flag_count,
			p.generated_at = $generated_at
		RETURN p.uuid AS uuid
	`

	SaveDocumentQuery = `
		MERGE (d:Document {path: $path})
		SET d.uuid = $uuid,
			d.inferred_type = $inferred_type,
			d.amendment_sequence = $amendment_sequence,
			d.execution_date = $execution_date
		RETURN d.uuid AS uuid
	`

	SaveHasDocumentQuery = `
		MATCH (p:Property {property_id: $property_id})
		MATCH (d:Document {path: $path})
		MERGE (p)-[e:HAS_DOCUMENT]->(d)
		SET e.role = $role
		RETURN p.property_id AS property_id
	`

	SaveAmendsQuery = `
		MATCH (a:Document {path: $amendment_path})
		MATCH (b:Document {path: $base_path})
		MERGE (a)-[e:AMENDS]->(b)
		SET e.applied_order = $applied_order
		RETURN a.path AS path
	`
)
