package sqlinline

const QSelectStatistics = `--sql 503587bc-0c41-4931-9479-fcd0737b5c43
select target, deadline
from statistics
where user_id = $1::text
limit 1;
`

const QUpsertStatistics = `--sql 6b6a678c-6ee0-4d74-96c4-ea49dbddaf92
insert into statistics(user_id, target, deadline, updated_at)
values ($1::text, $2::float8, $3::timestamptz, now())
on conflict (user_id) do update set
  target = excluded.target,
  deadline = excluded.deadline,
  updated_at = now();
`
