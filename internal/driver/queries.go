package driver

const (
	CreateSubjectIndexNeo4j    = `CREATE INDEX subject_id IF NOT EXISTS FOR (s:Subject) ON (s.id)`
	CreateSubjectIndexMemgraph = `CREATE INDEX ON :Subject(id);`

	ClearGraphQuery = `
		MATCH (n)
		WHERE n:Subject OR n:Build
		DETACH DELETE n
	`

	UpsertSubjectsQuery = `
		UNWIND $subjects AS s
		MERGE (n:Subject {id: s.id})
		SET n += s
	`

	UpsertPrerequisitesQuery = `
		UNWIND $edges AS e
		MATCH (a:Subject {id: e.source})
		MATCH (b:Subject {id: e.target})
		MERGE (a)-[r:PREREQUISITE_OF]->(b)
		SET r.rule = e.rule,
			r.confidence = e.confidence
	`

	UpsertSameAsQuery = `
		UNWIND $edges AS e
		MATCH (a:Subject {id: e.source})
		MATCH (b:Subject {id: e.target})
		MERGE (a)-[r:SAME_AS]->(b)
		SET r.rule = e.rule,
			r.confidence = e.confidence
	`

	SetBuildQuery = `
		MERGE (b:Build {key: 'current'})
		SET b.build_id = $build_id,
			b.built_at = $built_at,
			b.subjects = $subjects,
			b.edges = $edges
	`

	CountSubjectsQuery = `
		MATCH (s:Subject)
		RETURN count(s) AS count
	`

	GetBuildQuery = `
		MATCH (b:Build {key: 'current'})
		RETURN b.build_id AS build_id
	`
)
