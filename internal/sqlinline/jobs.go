package sqlinline

const QInsertGenerationJob = `--sql 47c1740d-070d-46e4-bcd6-7821f1e701ed
insert into generation_jobs(
  id,
  business_id,
  campaign_id,
  status,
  prompt,
  aspect_ratio,
  style_id,
  model_tier,
  error_message,
  created_at,
  updated_at
) values (
  $1::uuid,
  $2::uuid,
  nullif($3::text, '')::uuid,
  $4::text,
  $5::text,
  $6::text,
  nullif($7::text, ''),
  $8::text,
  nullif($9::text, ''),
  now(),
  now()
)
returning created_at, updated_at;
`

const QSelectGenerationJobByID = `--sql ea698e6c-811b-4e50-b34f-194502e32450
select
  id::text,
  business_id::text,
  coalesce(campaign_id::text, ''),
  status,
  prompt,
  aspect_ratio,
  coalesce(style_id, ''),
  model_tier,
  coalesce(error_message, ''),
  coalesce(result_asset_id::text, ''),
  created_at,
  updated_at
from generation_jobs
where id = $1::uuid
limit 1;
`

const QUpdateGenerationJobProgress = `--sql 86f75615-67f0-4372-8e25-2261b1b44212
update generation_jobs
set error_message = $2::text,
    updated_at = now()
where id = $1::uuid
  and status in ('pending', 'processing');
`

const QCompleteGenerationJob = `--sql e094582d-21ee-4902-a82b-b541a5beb08e
update generation_jobs
set status = 'completed',
    result_asset_id = $2::uuid,
    error_message = null,
    updated_at = now()
where id = $1::uuid
  and status in ('pending', 'processing');
`

const QFailGenerationJob = `--sql 71adf40a-bfe2-48f9-b405-c266879f5002
update generation_jobs
set status = 'failed',
    error_message = $2::text,
    updated_at = now()
where id = $1::uuid
  and status in ('pending', 'processing');
`
