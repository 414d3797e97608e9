package sqlinline

const QInsertAsset = `--sql 6bf26c41-b0dd-4ace-b7c3-44cd1717c2bc
insert into assets(
  id,
  business_id,
  type,
  prompt,
  content,
  style_id,
  aspect_ratio,
  campaign_id,
  is_campaign_anchor,
  mime,
  bytes,
  created_at
) values (
  $1::uuid,
  $2::uuid,
  $3::text,
  $4::text,
  $5::text,
  nullif($6::text, ''),
  $7::text,
  nullif($8::text, '')::uuid,
  $9::bool,
  $10::text,
  $11::bigint,
  clock_timestamp()
)
returning created_at;
`

const QListAssetsByCampaign = `--sql b20a59f8-95c9-4f7f-8a0a-0a2e674040b8
select
  id::text,
  business_id::text,
  type,
  prompt,
  content,
  coalesce(style_id, ''),
  aspect_ratio,
  coalesce(campaign_id::text, ''),
  is_campaign_anchor,
  coalesce(mime, ''),
  coalesce(bytes, 0),
  created_at
from assets
where campaign_id = $1::uuid
order by created_at asc, id asc;
`
