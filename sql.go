package main

const SQL_CREATE_TABLES = `
CREATE TABLE IF NOT EXISTS "user" (
	id BIGSERIAL PRIMARY KEY,
	email TEXT NOT NULL,
	hashed_password TEXT NOT NULL,
	is_active BOOLEAN NOT NULL DEFAULT TRUE,
	is_verified BOOLEAN NOT NULL DEFAULT FALSE,
	is_superuser BOOLEAN NOT NULL DEFAULT FALSE,
	registered_at TIMESTAMPTZ NOT NULL DEFAULT now(),
	CONSTRAINT user_email_key UNIQUE (email)
);

CREATE TABLE IF NOT EXISTS queryhistory (
	id BIGSERIAL PRIMARY KEY,
	cadastral_number VARCHAR(25) NOT NULL,
	latitude DECIMAL(8,6),
	longitude DECIMAL(9,6),
	result BOOLEAN NOT NULL DEFAULT FALSE,
	created_at TIMESTAMPTZ NOT NULL DEFAULT now(),
	user_id BIGINT NOT NULL REFERENCES "user" (id) ON DELETE CASCADE,
	CONSTRAINT latitude_range CHECK (latitude >= -90 AND latitude <= 90),
	CONSTRAINT longitude_range CHECK (longitude >= -180 AND longitude <= 180)
);

CREATE INDEX IF NOT EXISTS queryhistory_cadastral_number_idx ON queryhistory (cadastral_number);
`

// SQL_UNIQUE_COORDINATES is only applied when UNIQUE_COORDINATES is set.
// Earlier deployments enforced one history row per coordinate pair; current
// ones do not, so the constraint is recreated on every start rather than
// baked into the table definition.
const SQL_UNIQUE_COORDINATES = `
ALTER TABLE queryhistory DROP CONSTRAINT IF EXISTS coordinates_unique;
ALTER TABLE queryhistory ADD CONSTRAINT coordinates_unique UNIQUE (latitude, longitude);
`
