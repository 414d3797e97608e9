package sqlinline

const QSelectIntegrationToken = `--sql a66aedd3-32f4-4ece-8f07-1d0708ec09e4
select token
from integration_tokens
where provider = $1::text
  and token <> ''
limit 1;
`

const QUpsertIntegrationToken = `--sql a69aacd8-57f4-4b93-ae39-f772e11f3916
insert into integration_tokens (provider, token, updated_at)
values ($1::text, $2::text, now())
on conflict (provider) do update
set token = excluded.token,
    updated_at = now();
`
