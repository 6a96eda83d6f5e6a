package sqlinline

const QListPartnersByUser = `--sql 0cee1f47-25dc-43ca-ae37-dbe46a430ead
select
  id,
  name,
  email,
  number,
  status,
  next_step_date,
  pledged_amount,
  confirmed_amount,
  confirmed_date,
  notes,
  saved
from partners
where user_id = $1::text
order by created_at, id;
`

const QSelectPartnerByID = `--sql 76d7e857-b357-4b97-8c87-5681046f90e9
select
  id,
  name,
  email,
  number,
  status,
  next_step_date,
  pledged_amount,
  confirmed_amount,
  confirmed_date,
  notes,
  saved
from partners
where user_id = $1::text and id = $2::text
limit 1;
`

const QUpsertPartner = `--sql 24a2376d-3926-491e-9552-3fb8f4af790b
insert into partners(
  user_id,
  id,
  name,
  email,
  number,
  status,
  next_step_date,
  pledged_amount,
  confirmed_amount,
  confirmed_date,
  notes,
  saved,
  created_at,
  updated_at
)
values (
  $1::text,
  $2::text,
  $3::text,
  $4::text,
  $5::text,
  $6::text,
  $7::timestamptz,
  $8::float8,
  $9::float8,
  $10::timestamptz,
  $11::text,
  $12::boolean,
  now(),
  now()
)
on conflict (user_id, id) do update set
  name = excluded.name,
  email = excluded.email,
  number = excluded.number,
  status = excluded.status,
  next_step_date = excluded.next_step_date,
  pledged_amount = excluded.pledged_amount,
  confirmed_amount = excluded.confirmed_amount,
  confirmed_date = excluded.confirmed_date,
  notes = excluded.notes,
  saved = excluded.saved,
  updated_at = now();
`

const QDeletePartner = `--sql 8dd77079-db95-413c-bba6-5d3ae985240c
delete from partners
where user_id = $1::text and id = $2::text;
`
