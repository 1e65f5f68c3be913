package store

const schemaRiskBundles = `
CREATE TABLE IF NOT EXISTS workup_risk_bundles (
    id UUID PRIMARY KEY DEFAULT gen_random_uuid(),
    assessment_id TEXT NOT NULL,
    algorithm_version TEXT NOT NULL,
    overall DOUBLE PRECISION NOT NULL,
    risk_level TEXT NOT NULL,
    bundle JSONB NOT NULL,
    requested_by TEXT NOT NULL DEFAULT '',
    created_at TIMESTAMPTZ NOT NULL DEFAULT now()
);

CREATE INDEX IF NOT EXISTS idx_workup_risk_bundles_assessment
    ON workup_risk_bundles(assessment_id, created_at DESC);
`

const schemaWorkups = `
CREATE TABLE IF NOT EXISTS workup_results (
    id UUID PRIMARY KEY DEFAULT gen_random_uuid(),
    assessment_id TEXT NOT NULL,
    funnel_slug TEXT NOT NULL,
    status TEXT NOT NULL,
    evidence_pack_hash CHAR(64) NOT NULL,
    result JSONB NOT NULL,
    requested_by TEXT NOT NULL DEFAULT '',
    created_at TIMESTAMPTZ NOT NULL DEFAULT now()
);

CREATE INDEX IF NOT EXISTS idx_workup_results_assessment
    ON workup_results(assessment_id, created_at DESC);
CREATE INDEX IF NOT EXISTS idx_workup_results_hash
    ON workup_results(evidence_pack_hash);
`

// schema lists statements in the order Migrate applies them.
var schema = []string{
	schemaRiskBundles,
	schemaWorkups,
}
