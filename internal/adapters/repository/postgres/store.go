package postgres

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"itsync/internal/core/domain"
	coreerrors "itsync/internal/core/errors"
)

const upsertNetworkDeviceSQL = `
INSERT INTO network_devices (
	meraki_device_id,
	name,
	product_type,
	status,
	uptime_percentage,
	synced_at
) VALUES ($1,$2,$3,$4,$5,$6)
ON CONFLICT (meraki_device_id) DO UPDATE SET
	name = EXCLUDED.name,
	product_type = EXCLUDED.product_type,
	status = EXCLUDED.status,
	uptime_percentage = EXCLUDED.uptime_percentage,
	synced_at = EXCLUDED.synced_at`

const selectNetworkDeviceSQL = `
SELECT meraki_device_id, name, product_type, status, uptime_percentage, synced_at
FROM network_devices
WHERE meraki_device_id = $1`

const upsertLocationSQL = `
INSERT INTO locations (name, state, timezone)
VALUES ($1,$2,$3)
ON CONFLICT (name) DO UPDATE SET
	state = EXCLUDED.state,
	timezone = EXCLUDED.timezone
RETURNING id`

const selectLocationIDsSQL = `SELECT id, name FROM locations`

const upsertUserSQL = `
INSERT INTO users (
	azure_id,
	name,
	email,
	job_title,
	department,
	company_name,
	city,
	location_id,
	azure_created_at
) VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9)
ON CONFLICT (azure_id) DO UPDATE SET
	name = EXCLUDED.name,
	email = EXCLUDED.email,
	job_title = EXCLUDED.job_title,
	department = EXCLUDED.department,
	company_name = EXCLUDED.company_name,
	city = EXCLUDED.city,
	location_id = EXCLUDED.location_id,
	azure_created_at = EXCLUDED.azure_created_at
RETURNING id`

const selectUserIDByEmailSQL = `SELECT id FROM users WHERE lower(email) = lower($1)`

const upsertTicketSQL = `
INSERT INTO tickets (
	fs_ticket_id,
	subject,
	category,
	description,
	status,
	priority,
	source,
	department_id,
	workspace_id,
	created_at,
	assigned_at,
	resolved_at,
	first_response_time,
	resolution_time,
	requester_id,
	assignee_id
) VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13,$14,$15,$16)
ON CONFLICT (fs_ticket_id) DO UPDATE SET
	subject = EXCLUDED.subject,
	category = EXCLUDED.category,
	description = EXCLUDED.description,
	status = EXCLUDED.status,
	priority = EXCLUDED.priority,
	source = EXCLUDED.source,
	department_id = EXCLUDED.department_id,
	workspace_id = EXCLUDED.workspace_id,
	created_at = EXCLUDED.created_at,
	assigned_at = EXCLUDED.assigned_at,
	resolved_at = EXCLUDED.resolved_at,
	first_response_time = EXCLUDED.first_response_time,
	resolution_time = EXCLUDED.resolution_time,
	requester_id = EXCLUDED.requester_id,
	assignee_id = EXCLUDED.assignee_id`

const upsertAssetSQL = `
INSERT INTO assets (
	fs_asset_id,
	asset_name,
	asset_type,
	asset_tag,
	location_id,
	user_id,
	lender_id
) VALUES ($1,$2,$3,$4,$5,$6,$7)
ON CONFLICT (fs_asset_id) DO UPDATE SET
	asset_name = EXCLUDED.asset_name,
	asset_type = EXCLUDED.asset_type,
	asset_tag = EXCLUDED.asset_tag,
	location_id = EXCLUDED.location_id,
	user_id = EXCLUDED.user_id,
	lender_id = EXCLUDED.lender_id`

// Querier is the subset of pgxpool.Pool the store uses.
type Querier interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// Store implements ports.Store on PostgreSQL.
type Store struct {
	db Querier
}

func NewStore(db Querier) *Store {
	return &Store{db: db}
}

func (s *Store) UpsertNetworkDevice(ctx context.Context, rec domain.NetworkDeviceRecord) error {
	args, err := networkDeviceArgs(rec)
	if err != nil {
		return err
	}

	if _, err := s.db.Exec(ctx, upsertNetworkDeviceSQL, args...); err != nil {
		return storageErr(err, "upsert network device", rec.Serial)
	}

	return nil
}

func (s *Store) GetNetworkDevice(ctx context.Context, serial string) (*domain.NetworkDeviceRecord, error) {
	var rec domain.NetworkDeviceRecord

	err := s.db.QueryRow(ctx, selectNetworkDeviceSQL, serial).Scan(
		&rec.Serial, &rec.Name, &rec.ProductType, &rec.Status, &rec.UptimePercentage, &rec.SyncedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, coreerrors.ErrDeviceNotFound
	}
	if err != nil {
		return nil, storageErr(err, "get network device", serial)
	}

	return &rec, nil
}

func (s *Store) UpsertLocation(ctx context.Context, loc domain.Location) (int64, error) {
	if loc.Name == "" {
		return 0, coreerrors.New(coreerrors.KindInvalidInput, "location name is required").WithField("name")
	}

	var id int64
	if err := s.db.QueryRow(ctx, upsertLocationSQL, loc.Name, loc.State, loc.Timezone).Scan(&id); err != nil {
		return 0, storageErr(err, "upsert location", loc.Name)
	}

	return id, nil
}

func (s *Store) LocationIDs(ctx context.Context) (map[string]int64, error) {
	rows, err := s.db.Query(ctx, selectLocationIDsSQL)
	if err != nil {
		return nil, storageErr(err, "list locations", "")
	}
	defer rows.Close()

	ids := make(map[string]int64)

	for rows.Next() {
		var (
			id   int64
			name string
		)

		if err := rows.Scan(&id, &name); err != nil {
			return nil, storageErr(err, "scan location", "")
		}

		ids[name] = id
	}

	if err := rows.Err(); err != nil {
		return nil, storageErr(err, "list locations", "")
	}

	return ids, nil
}

func (s *Store) UpsertUser(ctx context.Context, rec domain.UserRecord) (int64, error) {
	args, err := userArgs(rec)
	if err != nil {
		return 0, err
	}

	var id int64
	if err := s.db.QueryRow(ctx, upsertUserSQL, args...).Scan(&id); err != nil {
		return 0, storageErr(err, "upsert user", rec.DirectoryID)
	}

	return id, nil
}

func (s *Store) UserIDByEmail(ctx context.Context, email string) (int64, error) {
	// users without a principal name are stored with an empty email
	if strings.TrimSpace(email) == "" {
		return 0, coreerrors.ErrUserNotFound
	}

	var id int64

	err := s.db.QueryRow(ctx, selectUserIDByEmailSQL, email).Scan(&id)
	if errors.Is(err, pgx.ErrNoRows) {
		return 0, fmt.Errorf("%w: %s", coreerrors.ErrUserNotFound, email)
	}
	if err != nil {
		return 0, storageErr(err, "find user by email", email)
	}

	return id, nil
}

func (s *Store) UpsertTicket(ctx context.Context, rec domain.TicketRecord) error {
	args, err := ticketArgs(rec)
	if err != nil {
		return err
	}

	if _, err := s.db.Exec(ctx, upsertTicketSQL, args...); err != nil {
		return storageErr(err, "upsert ticket", rec.TicketID)
	}

	return nil
}

func (s *Store) UpsertAsset(ctx context.Context, rec domain.AssetRecord) error {
	args, err := assetArgs(rec)
	if err != nil {
		return err
	}

	if _, err := s.db.Exec(ctx, upsertAssetSQL, args...); err != nil {
		return storageErr(err, "upsert asset", rec.AssetID)
	}

	return nil
}

func networkDeviceArgs(rec domain.NetworkDeviceRecord) ([]any, error) {
	if rec.Serial == "" {
		return nil, coreerrors.New(coreerrors.KindInvalidInput, "serial is required").WithField("serial")
	}

	return []any{
		rec.Serial,
		rec.Name,
		rec.ProductType,
		rec.Status,
		rec.UptimePercentage,
		rec.SyncedAt.UTC(),
	}, nil
}

func userArgs(rec domain.UserRecord) ([]any, error) {
	if rec.DirectoryID == "" {
		return nil, coreerrors.New(coreerrors.KindInvalidInput, "directory id is required").WithField("azureId")
	}

	return []any{
		rec.DirectoryID,
		rec.Name,
		rec.Email,
		rec.JobTitle,
		rec.Department,
		rec.CompanyName,
		rec.City,
		rec.LocationID,
		rec.DirectoryAdded,
	}, nil
}

func ticketArgs(rec domain.TicketRecord) ([]any, error) {
	if rec.TicketID == "" {
		return nil, coreerrors.New(coreerrors.KindInvalidInput, "ticket id is required").WithField("fsTicketId")
	}

	return []any{
		rec.TicketID,
		rec.Subject,
		rec.Category,
		rec.Description,
		rec.Status,
		rec.Priority,
		rec.Source,
		rec.DepartmentID,
		rec.WorkspaceID,
		rec.CreatedAt,
		rec.AssignedAt,
		rec.ResolvedAt,
		rec.FirstResponseSecs,
		rec.ResolutionSecs,
		rec.RequesterID,
		rec.AssigneeID,
	}, nil
}

func assetArgs(rec domain.AssetRecord) ([]any, error) {
	if rec.AssetID == "" {
		return nil, coreerrors.New(coreerrors.KindInvalidInput, "asset id is required").WithField("fsAssetId")
	}

	return []any{
		rec.AssetID,
		rec.Name,
		rec.AssetType,
		rec.AssetTag,
		rec.LocationID,
		rec.UserID,
		rec.LenderID,
	}, nil
}

func storageErr(err error, op, key string) error {
	e := &coreerrors.Error{Kind: coreerrors.KindStorage, Msg: op, Err: err}
	if key != "" {
		e.Serial = key
	}
	return e
}
