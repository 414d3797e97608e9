package sqlinline

const QInsertCampaign = `--sql bfdbd49f-b864-4dd3-be10-77bcfa965b8a
insert into campaigns(
  id,
  business_id,
  status,
  total_images,
  completed_images,
  prompts,
  aspect_ratio,
  style_id,
  model_tier,
  freedom_mode,
  locale,
  anchor_regenerations,
  created_at,
  updated_at
) values (
  $1::uuid,
  $2::uuid,
  $3::text,
  $4::int,
  0,
  $5::jsonb,
  $6::text,
  nullif($7::text, ''),
  $8::text,
  $9::bool,
  nullif($10::text, ''),
  0,
  now(),
  now()
)
returning created_at, updated_at;
`

const QSelectCampaignByID = `--sql 1ae47148-39fa-4906-9736-62ac6a0bfdee
select
  id::text,
  business_id::text,
  status,
  total_images,
  completed_images,
  prompts,
  aspect_ratio,
  coalesce(style_id, ''),
  model_tier,
  freedom_mode,
  coalesce(locale, ''),
  coalesce(anchor_url, ''),
  coalesce(anchor_asset_id::text, ''),
  anchor_regenerations,
  coalesce(error, ''),
  completed_at,
  created_at,
  updated_at
from campaigns
where id = $1::uuid
limit 1;
`

// QUpdateCampaignProgress never lowers the counter while a run is in flight.
const QUpdateCampaignProgress = `--sql cf8eafcb-0bc2-46cb-bae4-59b6b4362738
update campaigns
set completed_images = greatest(completed_images, least($2::int, total_images)),
    updated_at = now()
where id = $1::uuid
  and status = 'processing';
`

// QSetCampaignAnchor only fills an empty anchor; replacing one is the regenerator's job.
const QSetCampaignAnchor = `--sql 53a2d2c7-1a0d-4bf6-8d79-2e09fc6c1413
update campaigns
set anchor_url = $2::text,
    anchor_asset_id = $3::uuid,
    updated_at = now()
where id = $1::uuid
  and anchor_url is null;
`

const QFinishCampaign = `--sql 616c5e74-0e73-456d-bc61-b9fc19ff8bdb
update campaigns
set status = $2::text,
    completed_images = least($3::int, total_images),
    error = nullif($4::text, ''),
    completed_at = $5::timestamptz,
    updated_at = now()
where id = $1::uuid
  and status = 'processing';
`

const QReplaceCampaignAnchor = `--sql 089107b4-50e8-4617-9abb-31aa24900b4f
update campaigns
set anchor_url = $2::text,
    anchor_asset_id = $3::uuid,
    anchor_regenerations = $4::int,
    status = 'preview',
    updated_at = now()
where id = $1::uuid;
`
