package sqlinline

const QSelectBusinessByID = `--sql 7bc2fe02-a4b0-44e2-805a-837715d8d0c8
select
  id::text,
  name,
  coalesce(industry, ''),
  coalesce(description, ''),
  coalesce(logo_url, ''),
  coalesce(color_palette, '{}'::text[]),
  created_at,
  updated_at
from businesses
where id = $1::uuid
limit 1;
`
